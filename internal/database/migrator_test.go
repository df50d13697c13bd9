package database

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_AreEmbeddedInOrder(t *testing.T) {
	subtree, err := Migrations()
	require.NoError(t, err)

	entries, err := fs.ReadDir(subtree, ".")
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}

	assert.Equal(t, []string{"001_create_authors.sql", "002_create_books.sql"}, names)
}

func TestMigrations_BooksReferenceAuthors(t *testing.T) {
	subtree, err := Migrations()
	require.NoError(t, err)

	bs, err := fs.ReadFile(subtree, "002_create_books.sql")
	require.NoError(t, err)

	sql := string(bs)
	assert.Contains(t, sql, "references authors (id) on delete restrict")
	assert.Contains(t, sql, "constraint books_isbn_key unique (isbn)")
	assert.Contains(t, sql, "---- create above / drop below ----")
}
