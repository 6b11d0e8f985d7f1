package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"moderator/internal/bootstrap"
)

func parseIDs(args []string) ([]uint64, error) {
	ids := make([]uint64, 0, len(args))
	for _, raw := range args {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseUint(part, 10, 64)
			if err != nil || id == 0 {
				return nil, fmt.Errorf("invalid id %q", part)
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, errors.New("at least one id is required")
	}
	return ids, nil
}

// optionalUser reads --user; 0 means the rule engine acts.
func optionalUser(cmd *cobra.Command) *uint64 {
	userID, _ := cmd.Flags().GetUint64("user")
	if userID == 0 {
		return nil
	}
	return &userID
}

// requireDurableQueue rejects the in-process queue where jobs must outlive the
// command: deferred enqueues would be dropped on exit, and a worker would have
// no producer to consume from.
func requireDurableQueue(app *bootstrap.App) error {
	if !strings.EqualFold(app.Config.Queue.Driver, "nats") {
		return fmt.Errorf("queued jobs need queue.driver=nats, got %q", app.Config.Queue.Driver)
	}
	return nil
}
