package commands

import (
	"fmt"
	"io"

	"scm_client/internal/config"
	"scm_client/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// renderer prints command results as text lines or as indented JSON.
type renderer struct {
	w      io.Writer
	errW   io.Writer
	format string
}

// progress is where status lines go while a command runs.
// JSON output keeps stdout a single document, so they move to stderr.
func (r renderer) progress() io.Writer {
	if r.format == config.OutputJSON {
		return r.errW
	}
	return r.w
}

func (r renderer) render(result any) error {
	if r.format == config.OutputJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		_, err = fmt.Fprintln(r.w, string(data))
		return err
	}

	for _, line := range textLines(result) {
		if _, err := fmt.Fprintln(r.w, line); err != nil {
			return err
		}
	}
	return nil
}

func textLines(result any) []string {
	switch res := result.(type) {
	case entity.AmountResult:
		return []string{amountLine(res)}
	case entity.StatusResult:
		return []string{statusLine(res.Completed)}
	case entity.AccountSummary:
		return []string{
			"wallet: " + res.WalletAddress,
			amountLine(res.WETHBalance),
			amountLine(res.SCMBalance),
			amountLine(res.ClaimableSCM),
			statusLine(res.ICOCompleted),
		}
	case entity.ClaimResult:
		return []string{"claim submitted: " + res.TxHash}
	case entity.InvestResult:
		return []string{fmt.Sprintf("invested amount: %s %s", res.Amount, res.Unit)}
	default:
		return []string{fmt.Sprint(result)}
	}
}

func amountLine(res entity.AmountResult) string {
	return fmt.Sprintf("%s: %s wei", res.Label, res.AmountWei)
}

func statusLine(completed bool) string {
	return fmt.Sprintf("ICO completed: %t", completed)
}
