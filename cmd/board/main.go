package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nemanjaninkovic-1/rust-tracker/internal/board"
	"github.com/nemanjaninkovic-1/rust-tracker/internal/core/domain"
)

// Terminal front for the task board: renders the status columns and drives
// the optimistic controller with move commands.
func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
	defer func() { _ = logger.Sync() }()

	baseURL := os.Getenv("TRACKER_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	client := board.NewAPIClient(baseURL)
	collection := board.NewCollection()
	controller := board.NewController(collection, client,
		board.WithMutationTimeout(10*time.Second),
		board.WithFailureListener(func(f board.MutationFailure) {
			fmt.Printf("!! move of %s to %s failed (%v); change undone\n", shortID(f.TaskID.String()), f.Target, f.Err)
		}),
	)
	defer controller.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = controller.Refresh(ctx)
	cancel()
	if err != nil {
		logger.Fatal("could not load tasks", zap.String("api_url", baseURL), zap.Error(err))
	}

	render(controller.Tasks())
	fmt.Println(`commands: mv <id-prefix> <Todo|InProgress|Completed>, ls, refresh, quit`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "q":
			return
		case "ls":
			render(controller.Tasks())
		case "refresh":
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err := controller.Refresh(ctx)
			cancel()
			if err != nil {
				fmt.Printf("refresh failed: %v\n", err)
				continue
			}
			render(controller.Tasks())
		case "mv":
			if len(fields) != 3 {
				fmt.Println("usage: mv <id-prefix> <status>")
				continue
			}
			handleMove(controller, fields[1], fields[2])
		default:
			fmt.Printf("unknown command %q\n", fields[0])
		}
	}
}

func handleMove(controller *board.Controller, idPrefix, rawStatus string) {
	status, err := domain.ParseTaskStatus(rawStatus)
	if err != nil {
		fmt.Printf("bad status %q: want Todo, InProgress or Completed\n", rawStatus)
		return
	}

	task, ok := findByPrefix(controller.Tasks(), idPrefix)
	if !ok {
		fmt.Printf("no task with id prefix %q\n", idPrefix)
		return
	}

	if err := controller.MoveTask(task.ID, status); err != nil {
		fmt.Printf("move failed: %v\n", err)
		return
	}

	// The move is already visible locally; the server catches up behind it.
	render(controller.Tasks())
}

func findByPrefix(tasks []domain.Task, prefix string) (domain.Task, bool) {
	for _, task := range tasks {
		if strings.HasPrefix(task.ID.String(), prefix) {
			return task, true
		}
	}
	return domain.Task{}, false
}

func render(tasks []domain.Task) {
	for _, column := range board.Project(tasks, nil) {
		fmt.Printf("== %s (%d)\n", column.Status, len(column.Tasks))
		for _, task := range column.Tasks {
			due := ""
			if task.DueDate != nil {
				due = " due " + task.DueDate.Format("2006-01-02")
			}
			fmt.Printf("  [%s] %-8s %s%s\n", shortID(task.ID.String()), task.Priority, task.Title, due)
		}
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
