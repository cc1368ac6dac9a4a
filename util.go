package users

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func nonNil[T any](v *T) *T {
	if v == nil {
		panic("nil")
	}
	return v
}
