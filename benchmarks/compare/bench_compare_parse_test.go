package compare_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"testing"

	sonic "github.com/bytedance/sonic"
	gojson "github.com/goccy/go-json"
	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fastjson"

	"github.com/reoring/dtobj"
)

// shared fixtures

const (
	cmpHugeN = 10000
	cmpHugeK = 8
)

// recordRegistry declares the Record type produced by generateHugeJSONArray.
func recordRegistry(tb testing.TB) *dtobj.Registry {
	tb.Helper()
	decl := dtobj.NewDeclarations()
	td := decl.Declare("Record").
		Property("id", "string").
		Property("name", "string").
		Property("age", "int|float").
		Property("active", "bool").
		Property("meta", "array|null")
	for k := 0; k < cmpHugeK; k++ {
		td.Property("k"+strconv.Itoa(k), "string|null")
	}
	if err := td.Err(); err != nil {
		tb.Fatalf("declare: %v", err)
	}
	return dtobj.NewRegistry(decl)
}

func smallRecordJSON() []byte {
	return []byte(`{"id":"obj_1","name":"n1","age":1,"active":true,"meta":{"score":1}}`)
}

func generateHugeJSONArray(numObjects int, extraFields int) []byte {
	var buf bytes.Buffer
	buf.Grow(numObjects * (64 + extraFields*16))
	buf.WriteByte('[')
	for i := 0; i < numObjects; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		buf.WriteString("\"id\":\"obj_")
		buf.WriteString(strconv.Itoa(i))
		buf.WriteString("\",\"name\":\"n")
		buf.WriteString(strconv.Itoa(i))
		buf.WriteString("\",\"age\":")
		buf.WriteString(strconv.Itoa(i))
		buf.WriteByte(',')
		if i%2 == 0 {
			buf.WriteString("\"active\":true,")
		} else {
			buf.WriteString("\"active\":false,")
		}
		buf.WriteString("\"meta\":{\"score\":")
		buf.WriteString(strconv.Itoa(i))
		buf.WriteByte('}')
		for k := 0; k < extraFields; k++ {
			buf.WriteByte(',')
			buf.WriteByte('"')
			buf.WriteString("k")
			buf.WriteString(strconv.Itoa(k))
			buf.WriteString("\":\"v")
			buf.WriteString(strconv.Itoa(i))
			buf.WriteString("_")
			buf.WriteString(strconv.Itoa(k))
			buf.WriteString("\"")
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

// drainTokens reads every token of src.
func drainTokens(src dtobj.Source) (int, error) {
	n := 0
	for {
		if _, err := src.NextToken(); err != nil {
			if errors.Is(err, io.EOF) {
				return n, nil
			}
			return n, err
		}
		n++
	}
}

// ---- ParseOnly: bytes -> memory structure (no validation) ----

func Benchmark_ParseOnly_stdlib_Small(b *testing.B) {
	data := smallRecordJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v map[string]any
		if err := json.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_ParseOnly_gojson_Small(b *testing.B) {
	data := smallRecordJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v map[string]any
		if err := gojson.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_ParseOnly_jsoniter_Small(b *testing.B) {
	data := smallRecordJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	var ji = jsoniter.ConfigCompatibleWithStandardLibrary
	for i := 0; i < b.N; i++ {
		var v map[string]any
		if err := ji.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_ParseOnly_sonic_Small(b *testing.B) {
	data := smallRecordJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v map[string]any
		if err := sonic.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_ParseOnly_fastjson_Small(b *testing.B) {
	data := smallRecordJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var p fastjson.Parser
		if _, err := p.ParseBytes(data); err != nil {
			b.Fatal(err)
		}
	}
}

// Params keeps document order and rejects duplicates, unlike the map decoders above.
func Benchmark_ParseOnly_dtobj_Params_Small(b *testing.B) {
	data := smallRecordJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := dtobj.ParseJSONParams(data); err != nil {
			b.Fatal(err)
		}
	}
}

// ---- ParseAndCheck: decode plus the checks a Record construction performs ----

func Benchmark_ParseAndCheck_stdlib_Small(b *testing.B) {
	data := smallRecordJSON()
	allowed := map[string]bool{"id": true, "name": true, "age": true, "active": true, "meta": true}
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v map[string]any
		if err := json.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
		for k := range v {
			if !allowed[k] {
				b.Fatal("unknown key")
			}
		}
		if _, ok := v["id"].(string); !ok {
			b.Fatal("id missing or not string")
		}
		if _, ok := v["active"].(bool); !ok {
			b.Fatal("active missing or not bool")
		}
	}
}

func Benchmark_ParseAndCheck_dtobj_Small(b *testing.B) {
	reg := recordRegistry(b)
	data := smallRecordJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := reg.NewFromJSON("Record", data); err != nil {
			b.Fatal(err)
		}
	}
}

// ---- Huge array ----

func Benchmark_ParseOnly_stdlib_HugeArray(b *testing.B) {
	data := generateHugeJSONArray(cmpHugeN, cmpHugeK)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v []map[string]any
		if err := json.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_ParseOnly_gojson_HugeArray(b *testing.B) {
	data := generateHugeJSONArray(cmpHugeN, cmpHugeK)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v []map[string]any
		if err := gojson.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_ParseOnly_jsoniter_HugeArray(b *testing.B) {
	data := generateHugeJSONArray(cmpHugeN, cmpHugeK)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	var ji = jsoniter.ConfigCompatibleWithStandardLibrary
	for i := 0; i < b.N; i++ {
		var v []map[string]any
		if err := ji.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_ParseOnly_sonic_HugeArray(b *testing.B) {
	data := generateHugeJSONArray(cmpHugeN, cmpHugeK)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v []map[string]any
		if err := sonic.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_ParseOnly_fastjson_HugeArray(b *testing.B) {
	data := generateHugeJSONArray(cmpHugeN, cmpHugeK)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var p fastjson.Parser
		if _, err := p.ParseBytes(data); err != nil {
			b.Fatal(err)
		}
	}
}

// Token throughput of the configured dtobj JSON driver.
func Benchmark_TokenOnly_dtobj_HugeArray(b *testing.B) {
	data := generateHugeJSONArray(cmpHugeN, cmpHugeK)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := drainTokens(dtobj.JSONBytes(data)); err != nil {
			b.Fatal(err)
		}
	}
}

// Each element is decoded with go-json and constructed as a Record.
func Benchmark_ParseAndCheck_dtobj_HugeArray(b *testing.B) {
	reg := recordRegistry(b)
	data := generateHugeJSONArray(cmpHugeN, cmpHugeK)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var items []gojson.RawMessage
		if err := gojson.Unmarshal(data, &items); err != nil {
			b.Fatal(err)
		}
		for _, raw := range items {
			if _, err := reg.NewFromJSON("Record", raw); err != nil {
				b.Fatal(err)
			}
		}
	}
}
