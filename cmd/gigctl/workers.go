package main

import (
	"fmt"
	"strings"

	apperrors "campus-gig-workers/internal/common/errors"
	"campus-gig-workers/pkg/registry"

	rg "campus-gig-workers/internal/workers/ranking/recommend-gigs"
	rt "campus-gig-workers/internal/workers/ranking/recommend-talent"
	sg "campus-gig-workers/internal/workers/ranking/search-gigs"

	aa "campus-gig-workers/internal/workers/escrow/accept-application"
	cr "campus-gig-workers/internal/workers/escrow/confirm-release"
	lde "campus-gig-workers/internal/workers/escrow/lock-direct-escrow"
	le "campus-gig-workers/internal/workers/escrow/lock-escrow"
	re "campus-gig-workers/internal/workers/escrow/refund-escrow"
	rde "campus-gig-workers/internal/workers/escrow/release-direct-escrow"

	gb "campus-gig-workers/internal/workers/wallet/get-balance"
	rw "campus-gig-workers/internal/workers/wallet/request-withdrawal"
	stx "campus-gig-workers/internal/workers/wallet/settle-transaction"
	vd "campus-gig-workers/internal/workers/wallet/verify-deposit"

	"github.com/spf13/cobra"
)

const registryVersion = "1.0.0"

func codes(cs ...apperrors.ErrorCode) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = string(c)
	}
	return out
}

// Every ledger worker resolves the caller and loads records before acting.
var ledgerCodes = []apperrors.ErrorCode{
	apperrors.ErrCodeValidationFailed,
	apperrors.ErrCodeUnauthorizedAction,
	apperrors.ErrCodeTokenInvalid,
	apperrors.ErrCodeResourceNotFound,
}

func ledgerErrors(extra ...apperrors.ErrorCode) []string {
	return codes(append(append([]apperrors.ErrorCode{}, ledgerCodes...), extra...)...)
}

var paymentCodes = []apperrors.ErrorCode{
	apperrors.ErrCodePaymentSignatureInvalid,
	apperrors.ErrCodePaymentAmountMismatch,
	apperrors.ErrCodePaymentNotCaptured,
	apperrors.ErrCodeDuplicatePayment,
	apperrors.ErrCodeInvalidAmount,
}

// catalog builds the registry from the workers' own schemas.
func catalog() *registry.ActivityRegistry {
	rankingErrors := codes(apperrors.ErrCodeValidationFailed, apperrors.ErrCodeResourceNotFound)

	return &registry.ActivityRegistry{
		Version: registryVersion,
		Activities: []registry.Activity{
			{TaskType: sg.TaskType, Category: "ranking", InputSchema: sg.GetInputSchema(), ErrorCodes: rankingErrors,
				Description: "Rank open gigs for a student by skill match and proximity"},
			{TaskType: rg.TaskType, Category: "ranking", InputSchema: rg.GetInputSchema(), ErrorCodes: rankingErrors,
				Description: "Recommend nearby gigs with the composite score"},
			{TaskType: rt.TaskType, Category: "ranking", InputSchema: rt.GetInputSchema(), ErrorCodes: rankingErrors,
				Description: "List the nearest workers to a poster"},

			{TaskType: aa.TaskType, Category: "escrow", InputSchema: aa.GetInputSchema(),
				ErrorCodes:  ledgerErrors(apperrors.ErrCodeInvalidGigState, apperrors.ErrCodeGigAlreadyCompleted),
				Description: "Poster accepts an application; the gig moves to ACCEPTED"},
			{TaskType: le.TaskType, Category: "escrow", InputSchema: le.GetInputSchema(),
				ErrorCodes:  ledgerErrors(apperrors.ErrCodeInvalidGigState, apperrors.ErrCodeGigAlreadyCompleted),
				Description: "Lock the gig budget in escrow and start the work"},
			{TaskType: cr.TaskType, Category: "escrow", InputSchema: cr.GetInputSchema(),
				ErrorCodes:  ledgerErrors(apperrors.ErrCodeInvalidGigState, apperrors.ErrCodeGigAlreadyCompleted, apperrors.ErrCodeLedgerIntegrity),
				Description: "Record a completion confirmation; the second one pays the worker"},
			{TaskType: re.TaskType, Category: "escrow", InputSchema: re.GetInputSchema(),
				ErrorCodes:  ledgerErrors(apperrors.ErrCodeGigAlreadyCompleted),
				Description: "Return the budget to the poster and reopen the gig"},
			{TaskType: lde.TaskType, Category: "escrow", InputSchema: lde.GetInputSchema(),
				ErrorCodes:  ledgerErrors(append(paymentCodes, apperrors.ErrCodeEscrowAlreadyLocked, apperrors.ErrCodeGigAlreadyCompleted)...),
				Description: "Confirm a gateway payment and hold it against a chosen worker"},
			{TaskType: rde.TaskType, Category: "escrow", InputSchema: rde.GetInputSchema(),
				ErrorCodes:  ledgerErrors(apperrors.ErrCodeEscrowNotLocked),
				Description: "Release a direct escrow to its worker in full"},

			{TaskType: gb.TaskType, Category: "wallet", InputSchema: gb.GetInputSchema(),
				ErrorCodes:  ledgerErrors(),
				Description: "Derive a wallet balance from the ledger"},
			{TaskType: vd.TaskType, Category: "wallet", InputSchema: vd.GetInputSchema(),
				ErrorCodes:  ledgerErrors(paymentCodes...),
				Description: "Credit a wallet with a confirmed gateway payment"},
			{TaskType: rw.TaskType, Category: "wallet", InputSchema: rw.GetInputSchema(),
				ErrorCodes:  ledgerErrors(apperrors.ErrCodeInvalidAmount, apperrors.ErrCodeInsufficientBalance),
				Description: "Request a payout from the available balance"},
			{TaskType: stx.TaskType, Category: "wallet", InputSchema: stx.GetInputSchema(),
				ErrorCodes:  ledgerErrors(apperrors.ErrCodeInvalidTransactionState),
				Description: "Admin settles a pending transaction as COMPLETED or FAILED"},
		},
	}
}

func newWorkersCmd() *cobra.Command {
	var (
		out   string
		check string
	)

	cmd := &cobra.Command{
		Use:   "workers",
		Short: "List the task types served by the worker manager",
		Long: `Lists every task type with its category and required variables.
--out writes the full registry (schemas and BPMN error codes) as JSON;
--check compares a previously written registry against this build.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := catalog()
			if err := reg.Validate(); err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			switch {
			case out != "":
				if err := reg.Save(out); err != nil {
					return fmt.Errorf("write registry: %w", err)
				}
				fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Wrote %d activities to %s", len(reg.Activities), out)))
				return nil

			case check != "":
				saved, err := registry.LoadRegistry(check)
				if err != nil {
					return err
				}
				drift := compare(saved, reg)
				if len(drift) > 0 {
					for _, d := range drift {
						fmt.Fprintln(w, d)
					}
					return fmt.Errorf("registry %s is out of date (%d differences)", check, len(drift))
				}
				fmt.Fprintln(w, titleStyle.Render("Registry is up to date"))
				return nil
			}

			fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%d task types", len(reg.Activities))))
			for _, a := range reg.Activities {
				fmt.Fprintf(w, "%-22s %s  %s\n",
					labelStyle.Render(a.TaskType),
					mutedStyle.Render(a.Category),
					valueStyle.Render(strings.Join(a.InputSchema.Required, ", ")))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write the registry JSON to this file")
	cmd.Flags().StringVar(&check, "check", "", "compare a saved registry against this build")
	return cmd
}

// compare reports task types added, removed, or with changed required
// variables or error codes.
func compare(saved, current *registry.ActivityRegistry) []string {
	var drift []string
	for _, a := range current.Activities {
		s, ok := saved.Find(a.TaskType)
		if !ok {
			drift = append(drift, "missing: "+a.TaskType)
			continue
		}
		if strings.Join(s.InputSchema.Required, ",") != strings.Join(a.InputSchema.Required, ",") {
			drift = append(drift, "required variables changed: "+a.TaskType)
		}
		if strings.Join(s.ErrorCodes, ",") != strings.Join(a.ErrorCodes, ",") {
			drift = append(drift, "error codes changed: "+a.TaskType)
		}
	}
	for _, s := range saved.Activities {
		if _, ok := current.Find(s.TaskType); !ok {
			drift = append(drift, "removed: "+s.TaskType)
		}
	}
	return drift
}
