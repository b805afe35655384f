package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iudanet/tasktracker/pkg/api"
)

func newListCommand(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your todos",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, args []string, c *Cli) error {
			if _, err := c.requireAuth(cmd.Context()); err != nil {
				return err
			}

			todos, err := c.apiClient.ListTodos(cmd.Context())
			if err != nil {
				return explain(err)
			}

			ids := make([]string, 0, len(todos))
			for _, todo := range todos {
				ids = append(ids, todo.ID)
			}
			if err := c.store.SaveTodoIndex(cmd.Context(), ids); err != nil {
				return fmt.Errorf("failed to remember todo list: %w", err)
			}

			if len(todos) == 0 {
				c.io.Println("No todos yet.")
				c.io.Println("Use 'tasktracker add' to create your first todo.")
				return nil
			}

			tw := tabwriter.NewWriter(c.io, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tNAME\tDESCRIPTION\tCOMPLETED\tCREATED")
			for i, todo := range todos {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, todo.Name, todo.Description, todo.Completed, todo.CreatedAt)
			}
			return tw.Flush()
		}),
	}
}

func newGetCommand(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "get <number|id>",
		Short: "Show one todo",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, c *Cli) error {
			if _, err := c.requireAuth(cmd.Context()); err != nil {
				return err
			}

			id, err := c.resolveTodo(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			todo, err := c.apiClient.GetTodo(cmd.Context(), id)
			if err != nil {
				return explain(err)
			}

			printTodo(c, todo)
			return nil
		}),
	}
}

func newAddCommand(run runner) *cobra.Command {
	var (
		name, description string
		completed         bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a todo",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, args []string, c *Cli) error {
			if _, err := c.requireAuth(cmd.Context()); err != nil {
				return err
			}

			var err error
			if name == "" {
				if name, err = c.io.ReadInput("Name: "); err != nil {
					return fmt.Errorf("failed to read name: %w", err)
				}
			}
			if description == "" {
				if description, err = c.io.ReadInput("Description: "); err != nil {
					return fmt.Errorf("failed to read description: %w", err)
				}
			}

			todo, err := c.apiClient.CreateTodo(cmd.Context(), api.TodoRequest{
				Name:        name,
				Description: description,
				Completed:   api.Completed(completed),
			})
			if err != nil {
				return explain(err)
			}

			c.io.Println("✓ Todo added successfully!")
			printTodo(c, todo)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Todo name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Todo description")
	cmd.Flags().BoolVar(&completed, "completed", false, "Mark as completed")
	return cmd
}

func newEditCommand(run runner) *cobra.Command {
	var (
		name, description string
		completed         bool
	)

	cmd := &cobra.Command{
		Use:   "edit <number|id>",
		Short: "Edit a todo",
		Long: `Edit a todo. Fields given as flags are replaced; without flags
every field is asked interactively with the current value as default.`,
		Args: cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, c *Cli) error {
			if _, err := c.requireAuth(cmd.Context()); err != nil {
				return err
			}

			id, err := c.resolveTodo(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			current, err := c.apiClient.GetTodo(cmd.Context(), id)
			if err != nil {
				return explain(err)
			}

			req := api.TodoRequest{
				Name:        current.Name,
				Description: current.Description,
				Completed:   current.Completed,
			}

			flags := cmd.Flags()
			if flags.Changed("name") || flags.Changed("description") || flags.Changed("completed") {
				if flags.Changed("name") {
					req.Name = name
				}
				if flags.Changed("description") {
					req.Description = description
				}
				if flags.Changed("completed") {
					req.Completed = api.Completed(completed)
				}
			} else if err := promptTodo(c, &req); err != nil {
				return err
			}

			todo, err := c.apiClient.UpdateTodo(cmd.Context(), id, req)
			if err != nil {
				return explain(err)
			}

			c.io.Println("✓ Todo updated successfully!")
			printTodo(c, todo)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "New name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().BoolVar(&completed, "completed", false, "Completed state")
	return cmd
}

func newDeleteCommand(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <number|id>",
		Short: "Delete a todo",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, c *Cli) error {
			if _, err := c.requireAuth(cmd.Context()); err != nil {
				return err
			}

			id, err := c.resolveTodo(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if err := c.apiClient.DeleteTodo(cmd.Context(), id); err != nil {
				return explain(err)
			}

			c.io.Println("✓ Todo deleted successfully!")
			return nil
		}),
	}
}

// promptTodo спрашивает каждое поле; пустой ввод оставляет текущее значение
func promptTodo(c *Cli, req *api.TodoRequest) error {
	name, err := c.io.ReadInput(fmt.Sprintf("Name [%s]: ", req.Name))
	if err != nil {
		return fmt.Errorf("failed to read name: %w", err)
	}
	if name != "" {
		req.Name = name
	}

	description, err := c.io.ReadInput(fmt.Sprintf("Description [%s]: ", req.Description))
	if err != nil {
		return fmt.Errorf("failed to read description: %w", err)
	}
	if description != "" {
		req.Description = description
	}

	completed, err := c.io.ReadInput(fmt.Sprintf("Completed (True/False) [%s]: ", req.Completed))
	if err != nil {
		return fmt.Errorf("failed to read completed: %w", err)
	}
	if completed != "" {
		v, err := strconv.ParseBool(completed)
		if err != nil {
			return fmt.Errorf("completed must be True or False, got %q", completed)
		}
		req.Completed = api.Completed(v)
	}

	return nil
}

func printTodo(c *Cli, todo *api.Todo) {
	c.io.Printf("ID:          %s\n", todo.ID)
	c.io.Printf("Name:        %s\n", todo.Name)
	c.io.Printf("Description: %s\n", todo.Description)
	c.io.Printf("Completed:   %s\n", todo.Completed)
	c.io.Printf("Created:     %s\n", todo.CreatedAt)
}
