package cppon

import "strconv"

// printer_options.go is the options-tree parsing half of the printer:
// the recognized option keys are read out of a value tree (an object
// whose member keys are the flat, possibly dotted, option names), so a
// printing policy can itself travel as data.

// Layout selects the printer's overall text shape.
type Layout int

const (
	LayoutCppon Layout = iota // full superset mode (default)
	LayoutJSON                // JSON-compat mode
)

// CompactMode selects how the compact option applies.
type CompactMode int

const (
	CompactNone CompactMode = iota
	CompactAll              // compact is a bool: true everywhere
	CompactNamed            // compact is an array: only listed member names
)

// PrinterOptions is the parsed form of an options value tree.
type PrinterOptions struct {
	BufferReset   bool
	BufferRetain  bool
	BufferReserve bool

	Layout  Layout
	Flatten bool
	Exact   bool

	Pretty     bool
	Margin     int
	Tabulation int

	Compact      CompactMode
	CompactNames map[string]bool
}

// DefaultPrinterOptions returns the printer's defaults: buffer reset
// between calls, cppon layout, no flatten, no exact, non-pretty compact
// single-line output with a two-space tabulation should pretty be
// enabled later.
func DefaultPrinterOptions() PrinterOptions {
	return PrinterOptions{BufferReset: true, Tabulation: 2}
}

// ParsePrinterOptions reads tree (an object value, or null for defaults)
// into a PrinterOptions, recognizing the option keys listed in
// applyOption. Unrecognized keys raise BadOption rather than being silently
// ignored, as do recognized keys with the wrong value shape.
func ParsePrinterOptions(env *Env, tree *Value) (PrinterOptions, error) {
	opts := DefaultPrinterOptions()
	if tree == nil || tree.kind == KindNull {
		return opts, nil
	}
	obj, err := tree.Object()
	if err != nil {
		return opts, newPrinterError(KindBadOption, "printer options must be an object")
	}
	for i := 0; i < obj.Len(); i++ {
		if err := applyOption(env, &opts, obj.Key(i), obj.Value(i)); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

func applyOption(env *Env, opts *PrinterOptions, key string, val *Value) error {
	switch key {
	case "buffer.reset", "reset":
		b, err := optBool(val)
		if err != nil {
			return err
		}
		opts.BufferReset = b
	case "buffer.retain", "retain":
		b, err := optBool(val)
		if err != nil {
			return err
		}
		opts.BufferRetain = b
		opts.BufferReset = !b
	case "buffer.reserve":
		b, err := optBool(val)
		if err != nil {
			return err
		}
		opts.BufferReserve = b
	case "layout.json":
		b, err := optBool(val)
		if err != nil {
			return err
		}
		if b {
			opts.Layout = LayoutJSON
		}
	case "layout.cppon":
		b, err := optBool(val)
		if err != nil {
			return err
		}
		if b {
			opts.Layout = LayoutCppon
		}
	case "layout.flatten":
		b, err := optBool(val)
		if err != nil {
			return err
		}
		opts.Flatten = b
	case "layout.exact":
		b, err := optBool(val)
		if err != nil {
			return err
		}
		opts.Exact = b
	case "layout.pretty", "pretty":
		b, err := optBool(val)
		if err != nil {
			return err
		}
		opts.Pretty = b
	case "layout.margin":
		n, err := optInt(env, val)
		if err != nil {
			return err
		}
		opts.Margin = n
	case "layout.tabulation":
		n, err := optInt(env, val)
		if err != nil {
			return err
		}
		opts.Tabulation = n
	case "compact":
		return applyCompact(opts, val)
	case "layout":
		return applyLayoutShorthand(opts, val)
	case "buffer":
		return applyBufferShorthand(opts, val)
	default:
		return newPrinterError(KindBadOption, "unrecognized printer option key "+strconv.Quote(key))
	}
	return nil
}

// applyLayoutShorthand implements the short-string shorthand
// {"layout": "json"|"cppon"|"flatten"|"exact"} as an alternative to the
// dotted layout.* boolean keys.
func applyLayoutShorthand(opts *PrinterOptions, val *Value) error {
	s, err := GetString(val)
	if err != nil {
		return newPrinterError(KindBadOption, "layout shorthand must be a string")
	}
	switch s {
	case "json":
		opts.Layout = LayoutJSON
	case "cppon":
		opts.Layout = LayoutCppon
	case "flatten":
		opts.Flatten = true
	case "exact":
		opts.Exact = true
	default:
		return newPrinterError(KindBadOption, "unrecognized layout shorthand value")
	}
	return nil
}

// applyBufferShorthand implements the {"buffer": "reset"|"retain"|
// "reserve"|"noreserve"} shorthand.
func applyBufferShorthand(opts *PrinterOptions, val *Value) error {
	s, err := GetString(val)
	if err != nil {
		return newPrinterError(KindBadOption, "buffer shorthand must be a string")
	}
	switch s {
	case "reset":
		opts.BufferReset = true
	case "retain":
		opts.BufferRetain = true
		opts.BufferReset = false
	case "reserve":
		opts.BufferReserve = true
	case "noreserve":
		opts.BufferReserve = false
	default:
		return newPrinterError(KindBadOption, "unrecognized buffer shorthand value")
	}
	return nil
}

func optBool(val *Value) (bool, error) {
	if val.kind != KindBool {
		return false, newPrinterError(KindBadOption, "option value must be a bool")
	}
	return val.boolean, nil
}

func optInt(env *Env, val *Value) (int, error) {
	switch val.kind {
	case KindNumber, KindNumberToken:
		n, err := GetCastNumber[int64](env, val, true)
		if err != nil {
			return 0, newPrinterError(KindBadOption, "option value must be numeric")
		}
		return int(n), nil
	}
	return 0, newPrinterError(KindBadOption, "option value must be numeric")
}

func applyCompact(opts *PrinterOptions, val *Value) error {
	switch val.kind {
	case KindBool:
		if val.boolean {
			opts.Compact = CompactAll
		} else {
			opts.Compact = CompactNone
		}
		return nil
	case KindArray:
		arr, _ := val.Array()
		names := make(map[string]bool, arr.Len())
		for i := 0; i < arr.Len(); i++ {
			elem, err := arr.At(i)
			if err != nil {
				return err
			}
			s, err := GetString(elem)
			if err != nil {
				return newPrinterError(KindBadOption, "compact array must contain strings")
			}
			names[s] = true
		}
		opts.Compact = CompactNamed
		opts.CompactNames = names
		return nil
	}
	return newPrinterError(KindBadOption, "compact must be a bool or an array of strings")
}
