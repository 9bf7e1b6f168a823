package store

// Model is implemented by every struct stored through a Repository. It must
// be implemented on the value type.
type Model interface {
	GetTableDef() TableDef
}

// Validator is an optional hook checked by Record.Save. Models without it
// always pass.
type Validator interface {
	Validate() error
}
