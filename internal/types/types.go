package types

import "github.com/nconklindev/clientline/internal/client"

type ConversionResult struct {
	RunID          string
	InputFile      string
	OutputFile     string
	Sheet          string
	RowsRead       int
	RecordsWritten int
	RowsDropped    int
}

type FileData struct {
	Path      string
	Sheet     string
	Headers   []string
	Rows      []client.Row
	HeaderRow int
}
