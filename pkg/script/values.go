package script

import (
	"github.com/neurodesk/layout/pkg/layout"
	"go.starlark.net/starlark"
)

// ConvertToStarlark maps a context value onto its Starlark counterpart
// so template bodies can read render variables as ordinary globals.
func ConvertToStarlark(val layout.Value) starlark.Value {
	if val == nil {
		return starlark.None
	}

	switch v := val.(type) {
	case layout.StringValue:
		return starlark.String(string(v))
	case layout.IntValue:
		return starlark.MakeInt64(int64(v))
	case layout.FloatValue:
		return starlark.Float(float64(v))
	case layout.BoolValue:
		return starlark.Bool(bool(v))
	case layout.ListValue:
		items := make([]starlark.Value, len(v))
		for i, item := range v {
			items[i] = ConvertToStarlark(item)
		}
		return starlark.NewList(items)
	case layout.DictValue:
		dict := starlark.NewDict(len(v))
		for key, value := range v {
			dict.SetKey(starlark.String(key), ConvertToStarlark(value))
		}
		return dict
	case layout.NoneValue:
		return starlark.None
	default:
		// Anything else degrades to its string form.
		return starlark.String(val.String())
	}
}

// ConvertFromStarlark maps a Starlark value back into the context value
// domain. Ints that do not fit in 64 bits come back as their decimal
// string, and unknown kinds as their string form.
func ConvertFromStarlark(val starlark.Value) layout.Value {
	if val == nil || val == starlark.None {
		return layout.NoneValue{}
	}

	switch v := val.(type) {
	case starlark.String:
		return layout.StringValue(string(v))
	case starlark.Int:
		if i, ok := v.Int64(); ok {
			return layout.IntValue(i)
		}
		return layout.StringValue(v.String())
	case starlark.Float:
		return layout.FloatValue(float64(v))
	case starlark.Bool:
		return layout.BoolValue(bool(v))
	case *starlark.List:
		items := make(layout.ListValue, v.Len())
		for i := 0; i < v.Len(); i++ {
			items[i] = ConvertFromStarlark(v.Index(i))
		}
		return items
	case *starlark.Dict:
		dict := make(layout.DictValue, v.Len())
		for _, kv := range v.Items() {
			key := kv[0].String()
			if s, ok := kv[0].(starlark.String); ok {
				key = string(s)
			}
			dict[key] = ConvertFromStarlark(kv[1])
		}
		return dict
	default:
		return layout.StringValue(val.String())
	}
}
