package contract_test

import (
	"context"
	"fmt"

	"github.com/bjaus/contract"
)

// GetTaskParams identifies the task to fetch.
type GetTaskParams struct {
	ID string
}

// Validate implements the validation convention SchemaFor adapts.
func (p GetTaskParams) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("id must not be empty")
	}
	return nil
}

// Task is the endpoint's success shape.
type Task struct {
	ID    string
	Title string
}

func Example() {
	d := contract.New(map[string]contract.Endpoint{
		"task/get": {
			Resolve: contract.ResolverOf(func(ctx context.Context, env *contract.Envelope) (Task, error) {
				p := env.PathParams.(GetTaskParams)
				return Task{ID: p.ID, Title: "write the release notes"}, nil
			}),
			Schemas: &contract.Schemas{
				PathParams: contract.SchemaFor[GetTaskParams](),
			},
		},
	})

	off := d.OnCall("task/get", func(env *contract.Envelope) {
		fmt.Printf("calling with %v\n", env.PathParams)
	})
	defer off()

	task, err := contract.CallAs[Task](context.Background(), d, "task/get", &contract.Input{
		PathParams: GetTaskParams{ID: "42"},
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("got %s: %s\n", task.ID, task.Title)

	// A rejected input never reaches the resolver.
	res := d.SafeCall(context.Background(), "task/get", &contract.Input{
		PathParams: GetTaskParams{},
	})
	fmt.Println("ok:", res.OK)

	// Output:
	// calling with {42}
	// got 42: write the release notes
	// ok: false
}
