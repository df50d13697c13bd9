package types

type Author struct {
	Id   int64  `json:"id"`
	Name string `json:"name"`
}

type Book struct {
	Id       int64  `json:"id"`
	Title    string `json:"title"`
	Isbn     string `json:"isbn"`
	AuthorId int64  `json:"authorId"`
	// AuthorName is only filled by reads joining the author row
	AuthorName string `json:"authorName,omitempty"`
}
