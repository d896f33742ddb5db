package wire

// AppendArray writes each item in index order with no framing.
func AppendArray[T any](b []byte, items []T, f AppendFunc[T]) ([]byte, error) {
	var err error
	for _, item := range items {
		if b, err = f(b, item); err != nil {
			return b, err
		}
	}
	return b, nil
}

// DecodeArray fills dst in index order and returns the first element failure.
// Elements decoded before the failure stay in dst and the cursor is not rewound.
func DecodeArray[T any](c *Cursor, dst []T, f DecodeFunc[T]) error {
	for i := range dst {
		v, err := f(c)
		if err != nil {
			return err
		}
		dst[i] = v
	}
	return nil
}

// AppendOption writes a presence flag and, when v is non-nil, the value.
func AppendOption[T any](b []byte, v *T, f AppendFunc[T]) ([]byte, error) {
	if v == nil {
		return AppendBool(b, false), nil
	}
	return f(AppendBool(b, true), *v)
}

// DecodeOption reads the presence flag and decodes the value only when it is set.
func DecodeOption[T any](c *Cursor, f DecodeFunc[T]) (*T, error) {
	present, err := c.Bool()
	if err != nil || !present {
		return nil, err
	}
	v, err := f(c)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
