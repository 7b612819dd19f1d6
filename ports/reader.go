package ports

import "inkartidy/domain/tidy"

// RawTableReader loads the wide source table, metadata row included
type RawTableReader interface {
	Read() (*tidy.RawTable, error)
}
