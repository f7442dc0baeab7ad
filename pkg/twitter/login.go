package twitter

import (
	"context"
	"fmt"

	errs "xscraper/pkg/errors"
)

// Subtask identifiers the login flow hands back between steps.
const (
	subtaskJSInstrumentation = "LoginJsInstrumentationSubtask"
	subtaskEnterUserID       = "LoginEnterUserIdentifierSSO"
	subtaskEnterAltID        = "LoginEnterAlternateIdentifierSubtask"
	subtaskEnterPassword     = "LoginEnterPassword"
	subtaskDuplicationCheck  = "AccountDuplicationCheck"
	subtaskLoginSuccess      = "LoginSuccessSubtask"
	subtaskDenyLogin         = "DenyLoginSubtask"
)

// maxFlowSteps bounds the subtask loop so a misbehaving flow cannot spin.
const maxFlowSteps = 10

// Login authenticates with username and password by walking the onboarding
// task flow. email answers the alternate-identifier challenge when the flow
// asks for one.
func (c *Client) Login(ctx context.Context, username, password, email string) error {
	flow, err := c.startFlow(ctx)
	if err != nil {
		return err
	}

	for step := 0; step < maxFlowSteps; step++ {
		next := nextSubtask(flow)
		c.logger.DebugWithFields("Login flow step", map[string]interface{}{
			"subtask": next,
			"step":    step,
		})

		switch next {
		case "", subtaskLoginSuccess:
			if !c.IsLoggedIn(ctx) {
				return errs.New(errs.ErrorTypeAuth, 0, "login flow completed but session is not authenticated")
			}
			return nil

		case subtaskDenyLogin:
			return errs.New(errs.ErrorTypeAuth, 0, "login denied by the service")

		case subtaskJSInstrumentation:
			flow, err = c.advanceFlow(ctx, flow.FlowToken, map[string]interface{}{
				"subtask_id": subtaskJSInstrumentation,
				"js_instrumentation": map[string]interface{}{
					"response": "{}",
					"link":     "next_link",
				},
			})

		case subtaskEnterUserID:
			flow, err = c.advanceFlow(ctx, flow.FlowToken, map[string]interface{}{
				"subtask_id": subtaskEnterUserID,
				"settings_list": map[string]interface{}{
					"setting_responses": []map[string]interface{}{{
						"key": "user_identifier",
						"response_data": map[string]interface{}{
							"text_data": map[string]interface{}{"result": username},
						},
					}},
					"link": "next_link",
				},
			})

		case subtaskEnterAltID:
			if email == "" {
				return errs.New(errs.ErrorTypeAuth, 0, "service asked for an email challenge but none is configured")
			}
			flow, err = c.advanceFlow(ctx, flow.FlowToken, map[string]interface{}{
				"subtask_id": subtaskEnterAltID,
				"enter_text": map[string]interface{}{
					"text": email,
					"link": "next_link",
				},
			})

		case subtaskEnterPassword:
			flow, err = c.advanceFlow(ctx, flow.FlowToken, map[string]interface{}{
				"subtask_id": subtaskEnterPassword,
				"enter_password": map[string]interface{}{
					"password": password,
					"link":     "next_link",
				},
			})

		case subtaskDuplicationCheck:
			flow, err = c.advanceFlow(ctx, flow.FlowToken, map[string]interface{}{
				"subtask_id": subtaskDuplicationCheck,
				"check_logged_in_account": map[string]interface{}{
					"link": "AccountDuplicationCheck_false",
				},
			})

		default:
			return errs.New(errs.ErrorTypeAuth, 0, fmt.Sprintf("login flow requires unsupported step: %s", next))
		}

		if err != nil {
			return err
		}
		if len(flow.Errors) > 0 {
			return errs.New(errs.ErrorTypeAuth, flow.Errors[0].Code, flow.Errors[0].Message)
		}
	}

	return errs.New(errs.ErrorTypeAuth, 0, "login flow did not converge")
}

func (c *Client) startFlow(ctx context.Context) (*flowResponse, error) {
	payload := map[string]interface{}{
		"input_flow_data": map[string]interface{}{
			"flow_context": map[string]interface{}{
				"start_location": map[string]interface{}{"location": "splash_screen"},
			},
		},
	}

	var flow flowResponse
	if err := c.PostJSON(ctx, FlowURL("login"), payload, &flow); err != nil {
		return nil, err
	}
	if flow.FlowToken == "" {
		return nil, errs.New(errs.ErrorTypeAuth, 0, "login flow returned no token")
	}
	return &flow, nil
}

func (c *Client) advanceFlow(ctx context.Context, token string, input map[string]interface{}) (*flowResponse, error) {
	payload := map[string]interface{}{
		"flow_token":     token,
		"subtask_inputs": []map[string]interface{}{input},
	}

	var flow flowResponse
	if err := c.PostJSON(ctx, FlowURL(""), payload, &flow); err != nil {
		return nil, err
	}
	return &flow, nil
}

func nextSubtask(flow *flowResponse) string {
	if flow == nil || len(flow.Subtasks) == 0 {
		return ""
	}
	return flow.Subtasks[0].SubtaskID
}
