package main

import (
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"weighttracker/internal/client"
	"weighttracker/internal/domain"
)

func (c *cli) newHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the API is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := c.client(cmd.Context())
			if err != nil {
				return err
			}
			ok, err := api.Health(cmd.Context())
			if err != nil {
				return err
			}
			return c.print(map[string]bool{"ok": ok})
		},
	}
}

func (c *cli) newEchoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "echo [input]",
		Short: "Send input to the authenticated echo endpoint and show who the token belongs to",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			api, err := c.client(cmd.Context())
			if err != nil {
				return err
			}
			echo, err := api.Echo(cmd.Context(), input)
			if err != nil {
				return err
			}
			return c.print(echo)
		},
	}
}

func (c *cli) newWeightsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weights",
		Short: "Manage weight entries",
	}

	add := &cobra.Command{
		Use:   "add VALUE",
		Short: "Record a weight, now or at --at",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseValue(args[0])
			if err != nil {
				return err
			}
			at, err := timeFlag(cmd, "at")
			if err != nil {
				return err
			}
			api, err := c.client(cmd.Context())
			if err != nil {
				return err
			}
			id, err := api.AddWeight(cmd.Context(), value, at)
			if err != nil {
				return err
			}
			return c.print(map[string]int64{"id": id})
		},
	}
	add.Flags().String("at", "", "When the weight was taken (RFC 3339)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			offset, _ := cmd.Flags().GetInt("offset")
			api, err := c.client(cmd.Context())
			if err != nil {
				return err
			}
			items, err := api.ListWeights(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}
			if items == nil {
				items = []domain.WeightEntry{}
			}
			return c.print(items)
		},
	}
	list.Flags().Int("limit", 0, "Page size (server default when 0)")
	list.Flags().Int("offset", 0, "Entries to skip")

	update := &cobra.Command{
		Use:   "update ID",
		Short: "Change the value and/or time of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var upd client.EntryUpdate
			if raw, _ := cmd.Flags().GetString("value"); raw != "" {
				v, err := parseValue(raw)
				if err != nil {
					return err
				}
				upd.Value = &v
			}
			if upd.RecordedAt, err = timeFlag(cmd, "at"); err != nil {
				return err
			}
			if upd.Value == nil && upd.RecordedAt == nil {
				return errors.New("nothing to update: set --value and/or --at")
			}
			api, err := c.client(cmd.Context())
			if err != nil {
				return err
			}
			n, err := api.UpdateWeight(cmd.Context(), id, upd)
			if err != nil {
				return err
			}
			return c.print(map[string]int64{"updated": n})
		},
	}
	update.Flags().String("value", "", "New weight")
	update.Flags().String("at", "", "New time (RFC 3339)")

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			api, err := c.client(cmd.Context())
			if err != nil {
				return err
			}
			n, err := api.DeleteWeight(cmd.Context(), id)
			if err != nil {
				return err
			}
			return c.print(map[string]int64{"deleted": n})
		},
	}

	cmd.AddCommand(add, list, update, del)
	return cmd
}

func (c *cli) newGoalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage the goal weight",
	}

	get := &cobra.Command{
		Use:   "get",
		Short: "Show the goal, or null when none is set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := c.client(cmd.Context())
			if err != nil {
				return err
			}
			goal, err := api.GetGoal(cmd.Context())
			if err != nil {
				return err
			}
			return c.print(goal)
		},
	}

	set := &cobra.Command{
		Use:   "set VALUE",
		Short: "Create or replace the goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseValue(args[0])
			if err != nil {
				return err
			}
			at, err := timeFlag(cmd, "at")
			if err != nil {
				return err
			}
			api, err := c.client(cmd.Context())
			if err != nil {
				return err
			}
			created, err := api.SetGoal(cmd.Context(), value, at)
			if err != nil {
				return err
			}
			return c.print(map[string]bool{"created": created})
		},
	}
	set.Flags().String("at", "", "When the goal was set (RFC 3339)")

	del := &cobra.Command{
		Use:   "delete",
		Short: "Remove the goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := c.client(cmd.Context())
			if err != nil {
				return err
			}
			n, err := api.DeleteGoal(cmd.Context())
			if err != nil {
				return err
			}
			return c.print(map[string]int64{"deleted": n})
		},
	}

	cmd.AddCommand(get, set, del)
	return cmd
}

func parseValue(s string) (domain.Measure, error) {
	v, err := domain.ParseMeasure(s)
	if err != nil {
		return 0, errors.Wrapf(err, "value %q", s)
	}
	return v, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Errorf("invalid id %q", s)
	}
	return id, nil
}

// timeFlag returns nil when the flag is unset.
func timeFlag(cmd *cobra.Command, name string) (*time.Time, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return nil, nil
	}
	t, err := domain.ParseTimestamp(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "--%s %q", name, raw)
	}
	return &t, nil
}
