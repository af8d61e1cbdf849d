package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"quickmind/internal/domain/entity"
	"quickmind/internal/usecase/assist"
)

// resultOutput is the JSON form of a result. Output is null when there is none.
type resultOutput struct {
	Output *string       `json:"output"`
	Status entity.Status `json:"status"`
	Levels int           `json:"levels"`
	Calls  int           `json:"calls"`
	Cached bool          `json:"cached"`
}

type statusOutput struct {
	Ready    bool   `json:"ready"`
	Provider string `json:"provider"`
	Message  string `json:"message,omitempty"`
}

// printResult writes the result and returns an error for anything but
// StatusOK, so the process exit code is the same for every output format.
func (c *cli) printResult(resp *assist.Response) error {
	res := resp.Result
	if c.output == "json" {
		if err := c.writeJSON(resultOutput{
			Output: res.OutputPtr(),
			Status: res.Status,
			Levels: res.Levels,
			Calls:  res.Calls,
			Cached: resp.Cached,
		}); err != nil {
			return err
		}
		if res.Status != entity.StatusOK {
			return errResultFailed
		}
		return nil
	}

	switch res.Status {
	case entity.StatusOK:
		_, err := fmt.Fprintln(c.stdout, res.Output)
		return err
	case entity.StatusFailed:
		return errors.New(res.Output)
	default:
		return errResultFailed
	}
}

func (c *cli) printStatus(st assist.StatusInfo) error {
	if c.output == "json" {
		return c.writeJSON(statusOutput{Ready: st.Ready, Provider: st.Provider, Message: st.Message})
	}
	if st.Ready {
		_, err := fmt.Fprintf(c.stdout, "ready (%s)\n", st.Provider)
		return err
	}
	_, err := fmt.Fprintf(c.stdout, "not ready (%s): %s\n", st.Provider, st.Message)
	return err
}

func (c *cli) writeJSON(v any) error {
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
