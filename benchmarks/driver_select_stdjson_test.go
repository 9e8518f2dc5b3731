//go:build stdjson

package benchmarks_test

import "github.com/reoring/dtobj"

func init() { dtobj.UseStdlibJSONDriver() }
