package app

import (
	"fmt"
)

const (
	reportNone = "none"
	reportText = "text"
	reportJSON = "json"
)

// reportValue implements pflag.Value to provide a custom type name in help text
// and validation for report formats.
type reportValue string

func (f *reportValue) String() string {
	return string(*f)
}

func (f *reportValue) Set(v string) error {
	switch v {
	case reportNone, reportText, reportJSON:
		*f = reportValue(v)
		return nil
	default:
		return fmt.Errorf("must be '%s', '%s' or '%s'", reportNone, reportText, reportJSON)
	}
}

func (f *reportValue) Type() string {
	return "<format>"
}

// pathValue implements pflag.Value to provide a custom type name in help text.
type pathValue string

func (p *pathValue) String() string {
	return string(*p)
}

func (p *pathValue) Set(v string) error {
	*p = pathValue(v)
	return nil
}

func (p *pathValue) Type() string {
	return "<path>"
}
