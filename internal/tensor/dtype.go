// Package tensor provides the core tensor types for the seam runtime.
package tensor

// DType is a constraint for supported tensor element types.
type DType interface {
	~float32 | ~float64 | ~int32 | ~int64 | ~uint8 | ~bool
}

// DataType carries runtime type information for tensors.
type DataType int

// Supported data types.
const (
	Float32 DataType = iota
	Float64
	Int32
	Int64
	Uint8
	Bool
)

// dtypeInfo holds per-type metadata, indexed by DataType.
var dtypeInfo = [...]struct {
	name string
	size int
}{
	Float32: {"float32", 4},
	Float64: {"float64", 8},
	Int32:   {"int32", 4},
	Int64:   {"int64", 8},
	Uint8:   {"uint8", 1},
	Bool:    {"bool", 1},
}

func (dt DataType) valid() bool {
	return dt >= 0 && int(dt) < len(dtypeInfo)
}

// Size returns the byte size of one element.
func (dt DataType) Size() int {
	if !dt.valid() {
		panic("unknown data type")
	}
	return dtypeInfo[dt].size
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	if !dt.valid() {
		return "unknown"
	}
	return dtypeInfo[dt].name
}

// inferDataType maps a generic type parameter to its runtime DataType.
func inferDataType[T DType](dummy T) DataType {
	switch any(dummy).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case int32:
		return Int32
	case int64:
		return Int64
	case uint8:
		return Uint8
	case bool:
		return Bool
	default:
		panic("unsupported type")
	}
}
