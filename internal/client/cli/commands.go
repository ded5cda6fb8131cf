package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/astdirectory/internal/server/models"
)

var commands = map[string]command{
	"providers": {
		help: "list every provider",
		run: func(a *App, ctx context.Context, _ []string) (any, error) {
			return a.client.ListProviders(ctx)
		},
	},
	"provider": {
		operands: []string{"ID"},
		help:     "show one provider",
		run: func(a *App, ctx context.Context, args []string) (any, error) {
			return a.client.GetProvider(ctx, args[0])
		},
	},
	"add-provider": {
		operands: []string{"FILE"},
		help:     "add a provider",
		run: func(a *App, ctx context.Context, args []string) (any, error) {
			var details models.ProviderDetails
			if err := a.readPayload(args[0], &details); err != nil {
				return nil, err
			}
			return a.client.AddProvider(ctx, &details)
		},
	},
	"update-provider": {
		operands: []string{"ID", "FILE"},
		help:     "update a provider, keeping its instructors",
		run: func(a *App, ctx context.Context, args []string) (any, error) {
			var details models.ProviderDetails
			if err := a.readPayload(args[1], &details); err != nil {
				return nil, err
			}
			return a.client.UpdateProvider(ctx, args[0], &details)
		},
	},
	"add-instructor": {
		operands: []string{"PROVIDER_ID", "FILE"},
		help:     "add an instructor to a provider",
		run: func(a *App, ctx context.Context, args []string) (any, error) {
			var details models.Instructor
			if err := a.readPayload(args[1], &details); err != nil {
				return nil, err
			}
			id, err := a.client.AddInstructor(ctx, args[0], &details)
			if err != nil {
				return nil, err
			}
			return map[string]string{"instructorid": id}, nil
		},
	},
	"update-instructor": {
		operands: []string{"PROVIDER_ID", "INSTRUCTOR_ID", "FILE"},
		help:     "replace one instructor of a provider",
		run: func(a *App, ctx context.Context, args []string) (any, error) {
			var details models.Instructor
			if err := a.readPayload(args[2], &details); err != nil {
				return nil, err
			}
			return nil, a.client.UpdateInstructor(ctx, args[0], args[1], &details)
		},
	},
	"courses": {
		help: "list every course",
		run: func(a *App, ctx context.Context, _ []string) (any, error) {
			return a.client.ListCourses(ctx)
		},
	},
	"course": {
		operands: []string{"ID"},
		help:     "show one course",
		run: func(a *App, ctx context.Context, args []string) (any, error) {
			return a.client.GetCourse(ctx, args[0])
		},
	},
	"add-course": {
		operands: []string{"FILE"},
		help:     "add a course",
		run: func(a *App, ctx context.Context, args []string) (any, error) {
			var details models.CourseDetails
			if err := a.readPayload(args[0], &details); err != nil {
				return nil, err
			}
			return a.client.AddCourse(ctx, &details)
		},
	},
	"update-course": {
		operands: []string{"ID", "FILE"},
		help:     "replace a course",
		run: func(a *App, ctx context.Context, args []string) (any, error) {
			var details models.CourseDetails
			if err := a.readPayload(args[1], &details); err != nil {
				return nil, err
			}
			return a.client.UpdateCourse(ctx, args[0], &details)
		},
	},
}

func (a *App) printHelp() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(a.out, "Available commands:")
	for _, name := range names {
		c := commands[name]
		usage := name
		for _, op := range c.operands {
			usage += " " + op
		}
		fmt.Fprintf(a.out, "  %-50s %s\n", usage, c.help)
	}
}
