package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"holou/internal/models/db_models"
	"holou/internal/models/request_models"
	"holou/internal/models/response_models"
	"holou/pkg/logger"
	"holou/pkg/session"
	"holou/pkg/utils"
)

// MaxChatMessageLength is the limit, in characters, for a single answer.
const MaxChatMessageLength = 200

const (
	StepInit               = "init"
	StepProjectDescription = "project_description"
	StepDeveloperLevel     = "developer_level"
	StepSoftwareType       = "software_type"
	StepFramework          = "framework"
	StepGenerate           = "generate"
	StepGenerating         = "generating"
)

const (
	chatGreeting = "Hi, I'm Holou, your productivity companion. Let's build a learning plan around your project.\n\n" +
		"This demo accepts up to 200 characters per answer and generates the first 7 days of the plan.\n\n" +
		"What project would you like to build?"
	chatAskProject      = "Tell me about the project you want to build."
	chatLevelChoices    = "What is your current development level?\n\n1. Complete beginner (never coded, or just started)\n2. Beginner (know basic HTML, CSS and JavaScript)\n3. Intermediate (built a few projects, comfortable with one language)\n4. Advanced (professional developer, know several frameworks)"
	chatAskLevel        = "Please answer 1, 2, 3 or 4, or type complete beginner, beginner, intermediate or advanced."
	chatTypeChoices     = "What kind of software are you building? For example a website or web app, a desktop app, a mobile app, or something else."
	chatAskType         = "Please name the type of software: website, desktop app, mobile app or something else."
	chatFrameworkPrompt = "Do you have a preferred technology or framework? Examples: React, Vue, Django, Node.js, Flutter.\n\nType 'no preference' and I'll recommend one."
	chatGenerating      = "Thanks, that's everything I need. Generating your learning plan now, this can take a moment."
	chatPlanReady       = "Your learning plan is ready. Taking you to it now..."
	chatTooLong         = "That answer is longer than the 200 character limit of this demo. Please shorten it."
	chatInvalidType     = "Invalid message type"
	chatMissingAnswers  = "Missing required information"
	resultsURL          = "/results/"
)

var developerLevels = map[string]string{
	"1":                 "complete beginner",
	"2":                 "beginner",
	"3":                 "intermediate",
	"4":                 "advanced",
	"complete beginner": "complete beginner",
	"beginner":          "beginner",
	"intermediate":      "intermediate",
	"advanced":          "advanced",
}

var noPreferenceAnswers = map[string]bool{"": true, "no preference": true, "no": true, "none": true}

type ChatServiceInterface interface {
	HandleMessage(ctx context.Context, sessionKey string, req request_models.ChatRequest) (*response_models.ChatReply, error)
}

type ChatService struct {
	sessions    *session.Manager
	generator   PlanGeneratorInterface
	plans       PlanServiceInterface
	autoApprove bool
	log         *logger.Logger
}

func NewChatService(
	sessions *session.Manager,
	generator PlanGeneratorInterface,
	plans PlanServiceInterface,
	autoApprove bool,
	log *logger.Logger,
) ChatServiceInterface {
	return &ChatService{
		sessions:    sessions,
		generator:   generator,
		plans:       plans,
		autoApprove: autoApprove,
		log:         log,
	}
}

// HandleMessage answers one step of the question flow. Validation problems
// are replies, not errors; an error means the session could not be read or
// written.
func (s *ChatService) HandleMessage(ctx context.Context, sessionKey string, req request_models.ChatRequest) (*response_models.ChatReply, error) {
	message := strings.TrimSpace(req.Message)

	switch req.Type {
	case "", StepInit:
		return waiting(chatGreeting, StepProjectDescription), nil
	case StepProjectDescription:
		if message == "" {
			return waiting(chatAskProject, StepProjectDescription), nil
		}
		if utils.RuneLen(message) > MaxChatMessageLength {
			return waiting(chatTooLong, StepProjectDescription), nil
		}
		err := s.update(ctx, sessionKey, func(d *session.Data) { d.ProjectDescription = message })
		if err != nil {
			return nil, err
		}
		return waiting(fmt.Sprintf("Great, let's build: %s\n\n%s", message, chatLevelChoices), StepDeveloperLevel), nil

	case StepDeveloperLevel:
		if utils.RuneLen(message) > MaxChatMessageLength {
			return waiting(chatTooLong, StepDeveloperLevel), nil
		}
		level, ok := developerLevels[strings.ToLower(message)]
		if !ok {
			return waiting(chatAskLevel, StepDeveloperLevel), nil
		}
		if err := s.update(ctx, sessionKey, func(d *session.Data) { d.DeveloperLevel = level }); err != nil {
			return nil, err
		}
		return waiting(fmt.Sprintf("The plan will be tailored for a %s developer.\n\n%s", level, chatTypeChoices), StepSoftwareType), nil

	case StepSoftwareType:
		if message == "" {
			return waiting(chatAskType, StepSoftwareType), nil
		}
		if utils.RuneLen(message) > MaxChatMessageLength {
			return waiting(chatTooLong, StepSoftwareType), nil
		}
		if err := s.update(ctx, sessionKey, func(d *session.Data) { d.SoftwareType = message }); err != nil {
			return nil, err
		}
		return waiting(fmt.Sprintf("Got it, a %s.\n\n%s", message, chatFrameworkPrompt), StepFramework), nil

	case StepFramework:
		if utils.RuneLen(message) > MaxChatMessageLength {
			return waiting(chatTooLong, StepFramework), nil
		}
		framework := message
		if noPreferenceAnswers[strings.ToLower(message)] {
			framework = NoFrameworkPreference
		}
		if err := s.update(ctx, sessionKey, func(d *session.Data) { d.Framework = framework }); err != nil {
			return nil, err
		}
		return &response_models.ChatReply{
			Response:     chatGenerating,
			NextQuestion: StepGenerating,
			Status:       response_models.ChatStatusGenerating,
		}, nil

	case StepGenerate:
		return s.generate(ctx, sessionKey)
	}

	return &response_models.ChatReply{Status: response_models.ChatStatusError, Error: chatInvalidType}, nil
}

func (s *ChatService) generate(ctx context.Context, sessionKey string) (*response_models.ChatReply, error) {
	data, err := s.sessions.Load(ctx, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if data.ProjectDescription == "" || data.DeveloperLevel == "" || data.SoftwareType == "" {
		return &response_models.ChatReply{Status: response_models.ChatStatusError, Error: chatMissingAnswers}, nil
	}

	in := PlanInputs{
		ProjectDescription: data.ProjectDescription,
		DeveloperLevel:     data.DeveloperLevel,
		Framework:          data.Framework,
		SoftwareType:       data.SoftwareType,
	}
	if in.Framework == "" {
		in.Framework = NoFrameworkPreference
	}

	plan, err := s.generator.Generate(ctx, in)
	if err != nil {
		return nil, err
	}

	status := db_models.PlanStatusPending
	if s.autoApprove {
		status = db_models.PlanStatusApproved
	}

	record, err := s.plans.CreatePlan(ctx, sessionKey, in, plan, status)
	if err != nil {
		s.log.Error("storing plan failed, keeping it in the session", "error", err, "source", plan.Source)
		content, encodeErr := json.Marshal(plan.Content)
		if encodeErr != nil {
			return nil, fmt.Errorf("encode plan: %w", encodeErr)
		}
		data.PlanID = ""
		data.PlanData = content
	} else {
		s.log.Info("plan stored", "plan_id", record.ID, "status", record.Status, "source", record.Source)
		data.PlanID = record.ID.String()
		data.PlanData = nil
	}

	if err := s.sessions.Save(ctx, sessionKey, data); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return &response_models.ChatReply{
		Response:    chatPlanReady,
		Status:      response_models.ChatStatusSuccess,
		RedirectURL: resultsURL,
	}, nil
}

func (s *ChatService) update(ctx context.Context, sessionKey string, apply func(d *session.Data)) error {
	data, err := s.sessions.Load(ctx, sessionKey)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	apply(data)
	if err := s.sessions.Save(ctx, sessionKey, data); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func waiting(response, next string) *response_models.ChatReply {
	return &response_models.ChatReply{
		Response:     response,
		NextQuestion: next,
		Status:       response_models.ChatStatusWaiting,
	}
}
