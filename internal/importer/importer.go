// Package importer turns CSV bills into ledger records.
package importer

import (
	"io"

	"github.com/MrJamesThe3rd/ledger/internal/importer/csvbill"
)

type Parser interface {
	Parse(r io.Reader) (*csvbill.Result, error)
}
