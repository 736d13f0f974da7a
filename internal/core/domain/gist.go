package domain

// GistFile is one file of a gist.
type GistFile struct {
	Filename string
	Content  string
	RawURL   string
}

// Gist is a snippet collection.
type Gist struct {
	ID          string
	Description string
	Public      bool
	HTMLURL     string
	Files       []GistFile
	Owner       *User
}

// FileContent is an input file for a new gist.
type FileContent struct {
	Name    string
	Content string
}
