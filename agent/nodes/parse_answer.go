package orchestratornode

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/contract"
	llmx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/llm"
)

const defaultAnswerText = "I processed your request but could not produce a readable answer."

// ParseAnswer reads the narration into the structured answer shape. The
// narration is model output, so parsing is lenient: anything that does not
// decode becomes the answer text verbatim. Text is always non-empty.
func ParseAnswer(in *GraphState) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrInternal)
	}

	raw := strings.TrimSpace(in.RawNarration)

	var answer contractx.StructuredAnswer
	if extracted, err := llmx.ExtractJSON(raw); err != nil {
		log.Debug().Str("session_id", in.SessionID).Msg("narration is not JSON, keeping it as plain text")
		answer = contractx.StructuredAnswer{Text: raw}
	} else if err := json.Unmarshal(extracted, &answer); err != nil {
		log.Debug().Err(err).Str("session_id", in.SessionID).Msg("narration JSON does not match the answer shape")
		answer = contractx.StructuredAnswer{Text: raw}
	}

	if strings.TrimSpace(answer.Text) == "" {
		if raw != "" {
			answer.Text = raw
		} else {
			answer.Text = defaultAnswerText
		}
	}

	in.Answer = answer
	return in, nil
}
