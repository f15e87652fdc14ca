package db

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindText
	KindNumber
	KindBool
	KindBinary
	KindTimestamp
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindBinary:
		return "binary"
	case KindTimestamp:
		return "timestamp"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a single column value. The zero Value is NULL.
type Value struct {
	kind Kind
	text string
	num  json.Number
	b    bool
	bin  []byte
	ts   time.Time
}

func Null() Value { return Value{} }
func Text(s string) Value { return Value{kind: KindText, text: s} }
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }
func Timestamp(t time.Time) Value { return Value{kind: KindTimestamp, ts: t} }

func Binary(b []byte) Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Value{kind: KindBinary, bin: cp}
}

func Int(i int64) Value {
	return Value{kind: KindNumber, num: json.Number(strconv.FormatInt(i, 10))}
}

func Uint(u uint64) Value {
	return Value{kind: KindNumber, num: json.Number(strconv.FormatUint(u, 10))}
}

// Float keeps NaN and infinities as text since JSON has no literal for them.
func Float(f float64) Value {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Text(s)
	}
	return Value{kind: KindNumber, num: json.Number(s)}
}

// Number returns a numeric value for s, or ok=false when s is not a JSON number.
func Number(s string) (Value, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !json.Valid([]byte(s)) {
		return Value{}, false
	}
	if c := s[0]; c != '-' && (c < '0' || c > '9') {
		return Value{}, false
	}
	return Value{kind: KindNumber, num: json.Number(s)}, true
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }
func (v Value) Bytes() []byte { return v.bin }
func (v Value) Time() time.Time { return v.ts }

// Hex renders binary values as uppercase hexadecimal.
func (v Value) Hex() string {
	return strings.ToUpper(hex.EncodeToString(v.bin))
}

// String is the display form used by table output.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindText:
		return v.text
	case KindNumber:
		return v.num.String()
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindBinary:
		return v.Hex()
	case KindTimestamp:
		return v.ts.Format(time.RFC3339Nano)
	default:
		return ""
	}
}

// Interface returns the plain Go form of the value as it appears in JSON.
func (v Value) Interface() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	default:
		return v.String()
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindNumber:
		return []byte(v.num.String()), nil
	case KindBool:
		return json.Marshal(v.b)
	default:
		return json.Marshal(v.String())
	}
}

// Equal reports whether both values hold the same variant and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindText:
		return v.text == o.text
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	case KindBinary:
		return bytes.Equal(v.bin, o.bin)
	case KindTimestamp:
		return v.ts.Equal(o.ts)
	}
	return false
}

// ValueOf maps a driver value into the union. []byte is treated as binary;
// dialects that return text as []byte convert before calling this.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case string:
		return Text(x)
	case []byte:
		return Binary(x)
	case bool:
		return Bool(x)
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint:
		return Uint(uint64(x))
	case uint8:
		return Uint(uint64(x))
	case uint16:
		return Uint(uint64(x))
	case uint32:
		return Uint(uint64(x))
	case uint64:
		return Uint(x)
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	case time.Time:
		return Timestamp(x)
	case *time.Time:
		if x == nil {
			return Null()
		}
		return Timestamp(*x)
	case fmt.Stringer:
		return Text(x.String())
	default:
		return Text(fmt.Sprint(x))
	}
}
