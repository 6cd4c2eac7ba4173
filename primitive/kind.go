package primitive

import (
	"reflect"
	"strconv"
	"time"
)

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

type KindEnum int

const (
	_ KindEnum = iota // zero means not a primitive

	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindTime
	KindDuration
	KindPrimitiveEnum // named type over a number, bool or string
)

// IsNumber reports whether k is an integer or floating point kind.
func (k KindEnum) IsNumber() bool {
	return k.IsSigned() || k.IsUnsigned() || k.IsFloat()
}

func (k KindEnum) IsFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

func (k KindEnum) IsSigned() bool {
	return k >= KindInt && k <= KindInt64
}

func (k KindEnum) IsUnsigned() bool {
	return k >= KindUint && k <= KindUint64
}

// Bits returns the bit size strconv expects for k, or 0 for kinds that are not numbers.
func (k KindEnum) Bits() int {
	switch k {
	case KindInt, KindUint:
		return strconv.IntSize
	case KindInt8, KindUint8:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32, KindFloat32:
		return 32
	case KindInt64, KindUint64, KindFloat64:
		return 64
	default:
		return 0
	}
}

// Category returns the human-readable category used in parse error messages.
func (k KindEnum) Category() Category {
	switch {
	case k.IsSigned(), k.IsUnsigned():
		return CategoryNumber
	case k.IsFloat():
		return CategoryDecimal
	}

	switch k {
	case KindBool:
		return CategoryLogical
	case KindString:
		return CategoryText
	case KindTime, KindDuration:
		return CategoryDate
	default:
		return CategoryObject
	}
}

var basicKinds = map[reflect.Type]KindEnum{
	reflect.TypeOf(int(0)):           KindInt,
	reflect.TypeOf(int8(0)):          KindInt8,
	reflect.TypeOf(int16(0)):         KindInt16,
	reflect.TypeOf(int32(0)):         KindInt32,
	reflect.TypeOf(int64(0)):         KindInt64,
	reflect.TypeOf(uint(0)):          KindUint,
	reflect.TypeOf(uint8(0)):         KindUint8,
	reflect.TypeOf(uint16(0)):        KindUint16,
	reflect.TypeOf(uint32(0)):        KindUint32,
	reflect.TypeOf(uint64(0)):        KindUint64,
	reflect.TypeOf(float32(0)):       KindFloat32,
	reflect.TypeOf(float64(0)):       KindFloat64,
	reflect.TypeOf(false):            KindBool,
	reflect.TypeOf(""):               KindString,
	reflect.TypeOf(time.Time{}):      KindTime,
	reflect.TypeOf(time.Duration(0)): KindDuration,
}

var reflectKinds = map[reflect.Kind]KindEnum{
	reflect.Int:     KindInt,
	reflect.Int8:    KindInt8,
	reflect.Int16:   KindInt16,
	reflect.Int32:   KindInt32,
	reflect.Int64:   KindInt64,
	reflect.Uint:    KindUint,
	reflect.Uint8:   KindUint8,
	reflect.Uint16:  KindUint16,
	reflect.Uint32:  KindUint32,
	reflect.Uint64:  KindUint64,
	reflect.Float32: KindFloat32,
	reflect.Float64: KindFloat64,
	reflect.Bool:    KindBool,
	reflect.String:  KindString,
}

func FromReflectType(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return 0
	}

	if k, ok := basicKinds[rtype]; ok {
		return k
	}

	if _, ok := reflectKinds[rtype.Kind()]; ok {
		return KindPrimitiveEnum
	}

	return 0
}

// BaseKind resolves KindPrimitiveEnum to the kind of the underlying basic type.
func BaseKind(rtype reflect.Type) KindEnum {
	k := FromReflectType(rtype)
	if k != KindPrimitiveEnum {
		return k
	}

	return reflectKinds[rtype.Kind()]
}
