package progrock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	prog "github.com/vito/progrock"
	"go.trai.ch/zerr"

	"go.trai.ch/mk/internal/adapters/telemetry/progrock"
)

func TestRecorderVertexLifecycle(t *testing.T) {
	tape := prog.NewTape()
	r := progrock.NewRecorder(tape)

	ctx, v := r.Record(context.Background(), "cc -c main.c -o main.o")
	require.NotNil(t, ctx)
	require.NotNil(t, v)

	n, err := v.Stdout().Write([]byte("compiling\n"))
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	v.Complete(nil)

	_, failed := r.Record(context.Background(), "cc -c util.c -o util.o")
	failed.Complete(zerr.New("exit status 1"))

	_, cached := r.Record(context.Background(), "cp x.in x.out")
	cached.Cached()

	require.NoError(t, r.Close())
}
