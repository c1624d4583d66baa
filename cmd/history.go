package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/internal/core/access"
	"github.com/frahmantamala/hr-records/internal/decisionlog"
	decisionlogPostgres "github.com/frahmantamala/hr-records/internal/decisionlog/postgres"
	"github.com/frahmantamala/hr-records/pkg/logger"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [absence-id]",
	Short: "Print the decision history of an absence request",
	Long:  `Print every recorded status change of an absence request, oldest first.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		absenceID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || absenceID <= 0 {
			return fmt.Errorf("invalid absence id %q", args[0])
		}
		return printHistory(cmd.Context(), absenceID)
	},
}

// operator is the identity the CLI acts as. It only reads.
var operator = access.Identity{SubjectID: 0, Role: access.RolePrivileged}

func printHistory(ctx context.Context, absenceID int64) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.DecisionLog.Source == "" {
		return fmt.Errorf("decision log is not configured")
	}

	connectCtx, cancel := internal.WithTimeout(ctx, 0)
	defer cancel()
	pool, err := decisionlogPostgres.NewPool(connectCtx, cfg.DecisionLog)
	if err != nil {
		return err
	}
	defer pool.Close()

	svc := decisionlog.NewService(decisionlogPostgres.NewRepository(pool), logger.L())
	entries, err := svc.History(ctx, operator, absenceID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Printf("no decisions recorded for absence %d\n", absenceID)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "OCCURRED AT\tFROM\tTO\tACTOR\tEVENT")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			e.OccurredAt.Format(time.RFC3339), e.PreviousStatus, e.NewStatus, e.ActorSubjectID, e.EventID)
	}
	return w.Flush()
}
