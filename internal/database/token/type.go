package token

// Cursor marks where the next page of a list query starts.
type Cursor struct {
	Offset int `json:"offset"`
}

type TokenMarshaler interface {
	Marshal(scope string, cursor *Cursor) ([]byte, error)

	Unmarshal(scope string, token []byte) (*Cursor, error)
}
