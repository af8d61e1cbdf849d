package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickmind/internal/domain/entity"
	"quickmind/internal/usecase/assist"
)

func TestPrintResult_ExitCodesMatchAcrossFormats(t *testing.T) {
	tests := []struct {
		name    string
		result  entity.Result
		wantErr bool
	}{
		{name: "ok", result: entity.OK("A summary."), wantErr: false},
		{name: "no result", result: entity.NoResult(), wantErr: true},
		{name: "failed", result: entity.Failed(entity.SummaryFailedMessage), wantErr: true},
	}

	for _, tt := range tests {
		for _, format := range []string{"text", "json"} {
			t.Run(tt.name+"/"+format, func(t *testing.T) {
				var stdout bytes.Buffer
				c := &cli{stdout: &stdout, output: format}

				err := c.printResult(&assist.Response{Result: tt.result})
				if tt.wantErr {
					assert.Error(t, err)
				} else {
					assert.NoError(t, err)
				}
			})
		}
	}
}

func TestPrintResult_TextFailureCarriesMessage(t *testing.T) {
	c := &cli{stdout: &bytes.Buffer{}, output: "text"}

	err := c.printResult(&assist.Response{Result: entity.Failed(entity.TranslationFailedMessage)})

	require.Error(t, err)
	assert.Equal(t, entity.TranslationFailedMessage, err.Error())
}

func TestPrintResult_JSONNoResult(t *testing.T) {
	var stdout bytes.Buffer
	c := &cli{stdout: &stdout, output: "json"}

	err := c.printResult(&assist.Response{Result: entity.NoResult()})
	assert.ErrorIs(t, err, errResultFailed)

	var got map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	assert.Nil(t, got["output"])
	assert.Equal(t, "no_result", got["status"])
}
