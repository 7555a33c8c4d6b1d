package emailsvc

import (
	"fmt"
	"net/mail"
	"strings"
	"sync"

	"github.com/elimuhub/elimu/core"
)

var (
	// SentMessages captures sent mail in TEST mode for assertions.
	SentMessages = make([]core.EmailMessage, 0)
	mu           sync.Mutex
)

type consoleService struct {
	defaultFromEmail mail.Address
	subjPrefix       string
	disableOutput    bool
}

var _ core.EmailService = (*consoleService)(nil)

func NewConsoleService(conf *core.Config) core.EmailService {
	return &consoleService{
		defaultFromEmail: conf.DefaultFromEmail(),
		subjPrefix:       "[" + conf.AppName + "] ",
		disableOutput:    conf.TestMode,
	}
}

func (svc consoleService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		if msg.HasRecipients() && msg.HasContent() {
			go svc.send(*msg)
		}
	}
}

func (svc consoleService) send(msg core.EmailMessage) {
	mu.Lock()
	defer mu.Unlock()

	SentMessages = append(SentMessages, msg)
	if svc.disableOutput {
		return
	}

	tos := make([]string, 0, len(msg.To))
	for _, to := range msg.To {
		tos = append(tos, to.String())
	}
	fmt.Printf(
		"From: %s\nTo: %s\nSubject: %s\n\n%s\n",
		svc.defaultFromEmail.String(),
		strings.Join(tos, ", "),
		svc.subjPrefix+msg.Subject,
		msg.TextContent,
	)
}
