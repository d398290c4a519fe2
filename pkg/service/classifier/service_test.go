package classifier_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/mock"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/buddyguard/pkg/domain/types"
	"github.com/secmon-lab/buddyguard/pkg/service/classifier"
)

func newMockClient(respond func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)) (*mock.LLMClientMock, *int) {
	calls := 0
	client := &mock.LLMClientMock{
		NewSessionFunc: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			calls++
			return &mock.SessionMock{GenerateContentFunc: respond}, nil
		},
	}
	return client, &calls
}

func textResponse(text string) func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	return func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
		return &gollem.Response{Texts: []string{text}}, nil
	}
}

func TestClassify_Success(t *testing.T) {
	var prompt string
	client, _ := newMockClient(func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
		if text, ok := input[0].(gollem.Text); ok {
			prompt = string(text)
		}
		return &gollem.Response{Texts: []string{`{
			"suggestedType": "Cyberbullying",
			"severity": "HIGH",
			"reasoning": "Repeated harassment through the school forum."
		}`}}, nil
	})

	svc := classifier.New(client)
	s := svc.Classify(context.Background(), "Classmates keep posting insults about him online")

	gt.V(t, s).NotNil()
	gt.Equal(t, s.SuggestedType, "Cyberbullying")
	gt.Equal(t, s.Severity, types.SeverityHigh)
	gt.Equal(t, s.Reasoning, "Repeated harassment through the school forum.")
	gt.S(t, prompt).Contains(`Analyze this school incident: "Classmates keep posting insults about him online"`)
	gt.S(t, prompt).Contains("Academic Dishonesty")
}

func TestClassify_UnknownSeverityBecomesMedium(t *testing.T) {
	client, _ := newMockClient(textResponse(`{"suggestedType":"Vandalism","severity":"urgent","reasoning":"x"}`))
	s := classifier.New(client).Classify(context.Background(), "Broke the window of room 204")
	gt.V(t, s).NotNil()
	gt.Equal(t, s.Severity, types.SeverityMedium)
}

func TestClassify_ShortDescriptionSkipsModel(t *testing.T) {
	client, calls := newMockClient(textResponse(`{"suggestedType":"Other","severity":"Low"}`))
	svc := classifier.New(client)

	gt.V(t, svc.Classify(context.Background(), "fight")).Nil()
	gt.V(t, svc.Classify(context.Background(), "   123456789   ")).Nil()
	gt.Equal(t, *calls, 0)
}

func TestClassify_NoClient(t *testing.T) {
	svc := classifier.New(nil)
	gt.V(t, svc.Classify(context.Background(), "A long enough description")).Nil()
}

func TestClassify_FailuresYieldNil(t *testing.T) {
	testCases := map[string]func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error){
		"invalid json":   textResponse("not valid json"),
		"empty response": textResponse(""),
		"missing type":   textResponse(`{"severity":"High"}`),
		"llm error": func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
			return nil, errors.New("quota exceeded")
		},
	}

	for name, respond := range testCases {
		t.Run(name, func(t *testing.T) {
			client, _ := newMockClient(respond)
			s := classifier.New(client).Classify(context.Background(), "Student fainted during PE class")
			gt.V(t, s).Nil()
		})
	}
}

func TestClassify_Timeout(t *testing.T) {
	client, _ := newMockClient(func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	svc := classifier.New(client, classifier.WithTimeout(20*time.Millisecond))
	start := time.Now()
	s := svc.Classify(context.Background(), "Student fainted during PE class")
	gt.V(t, s).Nil()
	gt.True(t, time.Since(start) < 5*time.Second)
}

func TestAnalyze_ErrorTags(t *testing.T) {
	client, _ := newMockClient(textResponse("not valid json"))
	_, err := classifier.New(client).Analyze(context.Background(), "Student fainted during PE class")
	gt.Error(t, err)
	gt.B(t, goerr.HasTag(err, classifier.ErrTagInvalidJSON)).True()

	client, _ = newMockClient(textResponse(""))
	_, err = classifier.New(client).Analyze(context.Background(), "Student fainted during PE class")
	gt.B(t, goerr.HasTag(err, classifier.ErrTagEmptyResponse)).True()

	client, _ = newMockClient(textResponse(`{"severity":"Low"}`))
	_, err = classifier.New(client).Analyze(context.Background(), "Student fainted during PE class")
	gt.B(t, goerr.HasTag(err, classifier.ErrTagMissingField)).True()
}
