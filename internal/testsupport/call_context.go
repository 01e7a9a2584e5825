package testsupport

import "context"

type callKey struct{}

func withCall(ctx context.Context, call Call) context.Context {
	return context.WithValue(ctx, callKey{}, call)
}

func callFromContext(ctx context.Context) Call {
	call, _ := ctx.Value(callKey{}).(Call)
	return call
}
