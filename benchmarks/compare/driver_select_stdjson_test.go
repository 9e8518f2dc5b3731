//go:build stdjson

package compare_test

import "github.com/reoring/dtobj"

func init() { dtobj.UseStdlibJSONDriver() }
