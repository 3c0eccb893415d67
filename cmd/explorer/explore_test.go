package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"skilltree/application/services"
	"skilltree/infrastructure/persistence/memory"
)

type echoFetcher struct{}

func (echoFetcher) FetchLabel(ctx context.Context, prompt, accumulated string) string {
	return "Consider " + strings.TrimSpace(prompt) + "."
}

func TestRepl(t *testing.T) {
	store := memory.NewInMemorySessionStore(time.Hour, 0, zap.NewNop())
	defer store.Close()
	svc := services.NewSessionService(store, echoFetcher{}, 0, zap.NewNop(), nil)

	ctx := context.Background()
	session, err := svc.StartSession(ctx, "a", "b", "c")
	require.NoError(t, err)

	input := strings.Join([]string{
		"programming",
		"select 2",
		"design",
		"select 99",
		"tree",
		"quit",
		"never read",
	}, "\n")

	var out bytes.Buffer
	require.NoError(t, repl(ctx, strings.NewReader(input), &out, svc, session.ID().String()))

	got := out.String()
	assert.Contains(t, got, "added 2: Consider programming. (Tech Path)")
	assert.Contains(t, got, "selected 2")
	assert.Contains(t, got, "added 3: Consider design. (Creative Path)")
	assert.Contains(t, got, "cannot select 99")
	assert.Contains(t, got, "  * [2] Consider programming. (Tech Path)\n      [3] Consider design. (Creative Path)\n")
	assert.NotContains(t, got, "never read")

	graph, err := svc.Graph(ctx, session.ID().String())
	require.NoError(t, err)
	assert.Len(t, graph.Nodes, 3)
	assert.Equal(t, "e2-3", graph.Edges[1].ID)
}

func TestPrintTree_Nesting(t *testing.T) {
	store := memory.NewInMemorySessionStore(0, 0, zap.NewNop())
	defer store.Close()
	svc := services.NewSessionService(store, echoFetcher{}, 0, zap.NewNop(), nil)

	ctx := context.Background()
	session, err := svc.StartSession(ctx, "", "", "")
	require.NoError(t, err)
	id := session.ID().String()

	_, err = svc.AddNode(ctx, id, "x")
	require.NoError(t, err)
	require.NoError(t, svc.SelectNode(ctx, id, "2"))
	_, err = svc.AddNode(ctx, id, "y")
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, printTree(ctx, &out, svc, id))

	assert.Equal(t,
		"  [1] Start\n"+
			"  * [2] Consider x. (General Path)\n"+
			"      [3] Consider y. (General Path)\n",
		out.String(),
	)
}
