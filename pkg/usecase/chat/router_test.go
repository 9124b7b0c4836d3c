package chat_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/meetkit/rubybot/pkg/usecase/chat"
)

func TestClassifyDefaultKeyword(t *testing.T) {
	router := chat.NewRouter(nil)

	gt.Equal(t, router.Classify("when does the meeting start?"), chat.RouteGrounded)
	gt.Equal(t, router.Classify("tell me a joke"), chat.RouteGeneral)
	gt.Equal(t, router.Classify(""), chat.RouteGeneral)
}

func TestClassifyCaseInsensitive(t *testing.T) {
	router := chat.NewRouter(nil)

	gt.Equal(t, router.Classify("MEETING notes"), router.Classify("meeting notes"))
	gt.Equal(t, router.Classify("Summarize the MeEtInG please"), chat.RouteGrounded)
}

func TestClassifyCustomKeywords(t *testing.T) {
	router := chat.NewRouter([]string{"standup", "Retro "})

	gt.Equal(t, router.Classify("what happened in the STANDUP?"), chat.RouteGrounded)
	gt.Equal(t, router.Classify("summarize the retro"), chat.RouteGrounded)
	gt.Equal(t, router.Classify("what about the meeting?"), chat.RouteGeneral)
}

func TestClassifyBlankKeywordsFallBack(t *testing.T) {
	router := chat.NewRouter([]string{"", "  "})

	gt.Equal(t, router.Classify("meeting agenda"), chat.RouteGrounded)
}

func TestRouteString(t *testing.T) {
	gt.Equal(t, chat.RouteGrounded.String(), "grounded")
	gt.Equal(t, chat.RouteGeneral.String(), "general")
}
