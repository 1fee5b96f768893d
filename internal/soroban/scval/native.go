package scval

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/stellar/go/xdr"
)

// ToNative converts a contract return value into plain Go values:
//
//	bool         -> bool
//	void         -> nil
//	u32/i32      -> uint32/int32
//	u64/i64      -> uint64/int64
//	bytes        -> []byte
//	string/sym   -> string
//	address      -> string (strkey)
//	vec          -> []any
//	map          -> map[string]any (keys rendered through ToNative)
func ToNative(v xdr.ScVal) (any, error) {
	switch v.Type {
	case xdr.ScValTypeScvVoid:
		return nil, nil //nolint:nilnil
	case xdr.ScValTypeScvBool:
		if b, ok := v.GetB(); ok {
			return b, nil
		}
	case xdr.ScValTypeScvU32:
		if n, ok := v.GetU32(); ok {
			return uint32(n), nil
		}
	case xdr.ScValTypeScvI32:
		if n, ok := v.GetI32(); ok {
			return int32(n), nil
		}
	case xdr.ScValTypeScvU64:
		if n, ok := v.GetU64(); ok {
			return uint64(n), nil
		}
	case xdr.ScValTypeScvI64:
		if n, ok := v.GetI64(); ok {
			return int64(n), nil
		}
	case xdr.ScValTypeScvTimepoint:
		if n, ok := v.GetTimepoint(); ok {
			return uint64(n), nil
		}
	case xdr.ScValTypeScvBytes:
		if b, ok := v.GetBytes(); ok {
			return []byte(b), nil
		}
	case xdr.ScValTypeScvString:
		if s, ok := v.GetStr(); ok {
			return string(s), nil
		}
	case xdr.ScValTypeScvSymbol:
		if s, ok := v.GetSym(); ok {
			return string(s), nil
		}
	case xdr.ScValTypeScvAddress:
		if a, ok := v.GetAddress(); ok {
			return AddressString(a)
		}
	case xdr.ScValTypeScvVec:
		if vec, ok := v.GetVec(); ok {
			return vecToNative(vec)
		}
	case xdr.ScValTypeScvMap:
		if m, ok := v.GetMap(); ok {
			return mapToNative(m)
		}
	default:
		return nil, errors.Wrapf(ErrUnsupported, "type %s", v.Type)
	}

	return nil, errors.Wrapf(ErrUnsupported, "empty %s arm", v.Type)
}

func vecToNative(vec *xdr.ScVec) ([]any, error) {
	if vec == nil {
		return []any{}, nil
	}

	out := make([]any, 0, len(*vec))
	for i, item := range *vec {
		n, err := ToNative(item)
		if err != nil {
			return nil, errors.WithMessagef(err, "vec[%d]", i)
		}
		out = append(out, n)
	}

	return out, nil
}

func mapToNative(m *xdr.ScMap) (map[string]any, error) {
	out := map[string]any{}
	if m == nil {
		return out, nil
	}

	for _, entry := range *m {
		key, err := ToNative(entry.Key)
		if err != nil {
			return nil, errors.WithMessage(err, "map key")
		}

		var name string
		switch k := key.(type) {
		case string:
			name = k
		case []byte:
			name = HexEncode(k)
		default:
			name = fmt.Sprint(k)
		}

		val, err := ToNative(entry.Val)
		if err != nil {
			return nil, errors.WithMessagef(err, "map[%s]", name)
		}
		out[name] = val
	}

	return out, nil
}
