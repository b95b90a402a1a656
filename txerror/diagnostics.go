package txerror

// Diagnostics is the (sqlState, driverCode, message) tuple extracted from a
// single error frame.
type Diagnostics struct {
	SQLState   string
	HasSQL     bool
	DriverCode int
	HasCode    bool
	Message    string
}

// StructuredDiagnostics is implemented by errors that carry driver
// diagnostics of shape [sqlstate, driverCode, driverMessage]; entry 0 is
// used when textual, entry 1 when numeric.
type StructuredDiagnostics interface {
	DriverDiagnostics() [3]any
}

// StatusCoder is implemented by errors exposing their own status code,
// which may be an int (driver code) or a string (SQLSTATE-shaped).
type StatusCoder interface {
	StatusCode() any
}

// SQLStateAccessor is implemented by errors exposing a dedicated SQLSTATE
// accessor, consulted only if earlier steps left SQLState unset.
type SQLStateAccessor interface {
	SQLState() string
}

// extract reduces a single error frame to its diagnostic tuple: SQLSTATE,
// driver code, and message, preferring structured accessors over message
// text and never overwriting a value once set by an earlier step.
func extract(err error) Diagnostics {
	d := Diagnostics{Message: err.Error()}

	if sd, ok := err.(StructuredDiagnostics); ok {
		tuple := sd.DriverDiagnostics()
		if s, ok := tuple[0].(string); ok && s != "" {
			d.SQLState = s
			d.HasSQL = true
		}
		if code, ok := toInt(tuple[1]); ok {
			d.DriverCode = code
			d.HasCode = true
		}
	}

	if sc, ok := err.(StatusCoder); ok {
		switch v := sc.StatusCode().(type) {
		case int:
			if v != 0 && !d.HasCode {
				d.DriverCode = v
				d.HasCode = true
			}
		case string:
			if len(v) >= 5 && !d.HasSQL {
				d.SQLState = v[:5]
				d.HasSQL = true
			}
		}
	}

	if !d.HasSQL {
		if sa, ok := err.(SQLStateAccessor); ok {
			if s := sa.SQLState(); s != "" {
				d.SQLState = s
				d.HasSQL = true
			}
		}
	}

	return d
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}

// sqlStateOrNil returns a *string for heuristics callers, nil when unset.
func (d Diagnostics) sqlStateOrNil() *string {
	if !d.HasSQL {
		return nil
	}
	return &d.SQLState
}

func (d Diagnostics) driverCodeOrNil() *int {
	if !d.HasCode {
		return nil
	}
	return &d.DriverCode
}
