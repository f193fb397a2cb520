package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/praxisware/tpflow/internal/board"
	"github.com/praxisware/tpflow/internal/client"
	"github.com/praxisware/tpflow/internal/components/httpclient"
	"github.com/praxisware/tpflow/internal/model"
	syncpkg "github.com/praxisware/tpflow/internal/sync"
)

func main() {
	addr := flag.String("addr", "http://127.0.0.1:8080", "tpflow server base URL")
	token := flag.String("token", os.Getenv("TPFLOW_TOKEN"), "bearer token")
	project := flag.String("project", "", "scope the board to one project")
	flag.Parse()

	hc := &httpclient.InstrumentedClient{
		Name:    "tpflow_api",
		BaseURL: *addr,
		Client:  &http.Client{Timeout: 10 * time.Second},
		Retry: &httpclient.RetryConfig{
			Enabled:           true,
			MaxAttempts:       3,
			InitialBackoff:    200 * time.Millisecond,
			MaxBackoff:        2 * time.Second,
			BackoffMultiplier: 2.0,
		},
	}

	session := client.NewSession(*token)
	api := client.New(hc, session)

	var filters model.TaskFilters
	if *project != "" {
		filters.ProjectID = *project
	}
	store := syncpkg.NewTaskStore(api, filters)

	var wf *syncpkg.WorkflowView
	if *project != "" {
		wf = syncpkg.NewWorkflowView(api, *project)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := board.New(ctx, store, wf, *project)
	p := tea.NewProgram(m, tea.WithAltScreen())

	session.OnUnauthorized = func() {
		p.Quit()
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "tpflow-board: %v\n", err)
		os.Exit(1)
	}
}
