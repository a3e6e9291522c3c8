package store

import "encoding/json"

// Codec marshals/unmarshals a State for durable backends (SQLiteStore,
// MySQLStore). State is caller-defined, so callers provide the codec that
// knows their concrete type.
type Codec struct {
	Marshal   func(State) ([]byte, error)
	Unmarshal func([]byte) (State, error)
}

// NewJSONCodec builds a Codec that round-trips a concrete state type S
// through encoding/json. zero must return a fresh S value each call (it is
// the unmarshal target).
func NewJSONCodec[S State](zero func() S) Codec {
	return Codec{
		Marshal: func(s State) ([]byte, error) {
			return json.Marshal(s)
		},
		Unmarshal: func(data []byte) (State, error) {
			v := zero()
			if err := json.Unmarshal(data, &v); err != nil {
				return nil, err
			}
			return v, nil
		},
	}
}
