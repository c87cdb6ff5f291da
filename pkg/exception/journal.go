package exception

import "github.com/yanun0323/errors"

// Journal errors
var (
	ErrJournalNilDB         = errors.New("journal: nil db")
	ErrJournalInvalidRecord = errors.New("journal: invalid record")
)
