package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"skilltree/application/services"
	"skilltree/domain/core/entities"
	"skilltree/infrastructure/config"
	"skilltree/infrastructure/di"
)

// explorerSessions is the part of services.SessionService the REPL drives
type explorerSessions interface {
	Graph(ctx context.Context, sessionID string) (*services.GraphView, error)
	SelectNode(ctx context.Context, sessionID, nodeID string) error
	AddNode(ctx context.Context, sessionID, prompt string) (*services.AddNodeResult, error)
}

func runExplore(cmd *cobra.Command, args []string) error {
	if configFile == "" {
		configFile = os.Getenv("CONFIG_FILE")
	}
	cfg, err := config.Load(configFile, envFile)
	if err != nil {
		return err
	}

	container, cleanup, err := di.InitializeContainer(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	session, err := container.SessionService.StartSession(ctx, interests, academics, skills)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Session %s started. Profile: %s\n", session.ID(), session.Profile().PreviousData())
	return repl(ctx, cmd.InOrStdin(), out, container.SessionService, session.ID().String())
}

// repl reads commands until EOF, "quit" or ctx is done
func repl(ctx context.Context, in io.Reader, out io.Writer, sessions explorerSessions, sessionID string) error {
	if err := printTree(ctx, out, sessions, sessionID); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := scanner.Text()
		cmd := strings.TrimSpace(line)

		switch {
		case cmd == "":
			continue
		case cmd == "quit" || cmd == "exit":
			return nil
		case cmd == "tree":
			if err := printTree(ctx, out, sessions, sessionID); err != nil {
				return err
			}
		case strings.HasPrefix(cmd, "select "):
			id := strings.TrimSpace(strings.TrimPrefix(cmd, "select "))
			if err := sessions.SelectNode(ctx, sessionID, id); err != nil {
				fmt.Fprintf(out, "cannot select %s: %v\n", id, err)
				continue
			}
			fmt.Fprintf(out, "selected %s\n", id)
		default:
			// the raw line is the prompt; classification is whitespace-sensitive
			result, err := sessions.AddNode(ctx, sessionID, line)
			if err != nil {
				fmt.Fprintf(out, "add failed: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "added %s: %s\n", result.Node.ID(), result.Node.Label())
			if err := printTree(ctx, out, sessions, sessionID); err != nil {
				return err
			}
		}
	}
}

// printTree renders the tree depth-first with the selection marked
func printTree(ctx context.Context, out io.Writer, sessions explorerSessions, sessionID string) error {
	graph, err := sessions.Graph(ctx, sessionID)
	if err != nil {
		return err
	}

	children := map[string][]*entities.Node{}
	var root *entities.Node
	for _, n := range graph.Nodes {
		if n.IsRoot() {
			root = n
			continue
		}
		parent := n.ParentID().String()
		children[parent] = append(children[parent], n)
	}
	if root == nil {
		return nil
	}

	var walk func(n *entities.Node, depth int)
	walk = func(n *entities.Node, depth int) {
		marker := " "
		if n.ID().Equals(graph.SelectedNodeID) {
			marker = "*"
		}
		fmt.Fprintf(out, "%s%s [%s] %s\n", strings.Repeat("  ", depth), marker, n.ID(), n.Label())
		for _, c := range children[n.ID().String()] {
			walk(c, depth+1)
		}
	}
	walk(root, 0)
	return nil
}
