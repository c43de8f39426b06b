package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mariustrier/TimeTrack-sub004/internal/core/events"
	"github.com/mariustrier/TimeTrack-sub004/pkg/logger"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event bus commands",
	Long:  `Inspect the in-process event bus: publish a sample approval event through the server's handlers.`,
}

var (
	eventCompanyID string
	eventEntity    string
	eventAction    string
	eventCount     int64
)

var publishEventCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish a sample approval.transitioned event",
	RunE: func(cmd *cobra.Command, _ []string) error {
		lg := logger.LoggerWrapper()

		bus := events.NewEventBus(lg)
		bus.Subscribe(events.EventTypeApprovalTransitioned, events.LogHandler(lg))

		event := events.NewApprovalTransitionedEvent(eventCompanyID, eventEntity, eventAction, "cli", "", eventCount)
		lg.Info("publishing event", "event_type", event.EventType(), "event_id", event.EventID())

		if err := bus.PublishSync(context.Background(), event); err != nil {
			return err
		}
		lg.Info("event handled")
		return nil
	},
}

func init() {
	publishEventCmd.Flags().StringVar(&eventCompanyID, "company", "demo", "company id")
	publishEventCmd.Flags().StringVar(&eventEntity, "entity", "time_entry", "entity type")
	publishEventCmd.Flags().StringVar(&eventAction, "action", "APPROVE_DAY", "audit action")
	publishEventCmd.Flags().Int64Var(&eventCount, "count", 1, "rows moved")

	eventCmd.AddCommand(publishEventCmd)
	rootCmd.AddCommand(eventCmd)
}
