package pipeline

import (
	"github.com/sirupsen/logrus"
	"github.com/thoas/go-funk"

	"cwl2slack/internal/payloads"
	"cwl2slack/internal/util"
	"cwl2slack/log"
)

// Filter drops every message the pattern matches anywhere in, keeping the
// order of the rest. The empty pattern returns messages untouched.
func Filter(messages payloads.MessageList, pattern string) (payloads.MessageList, error) {
	re, err := util.CompileExcludePattern(pattern)
	if err != nil {
		return nil, err
	}
	if re == nil {
		return messages, nil
	}

	kept := make([]string, 0, len(messages))
	var excluded []string
	funk.ForEach([]string(messages), func(m string) {
		if re.MatchString(m) {
			excluded = append(excluded, m)
			return
		}
		kept = append(kept, m)
	})

	log.Logger().WithFields(logrus.Fields{
		"pattern":  pattern,
		"excluded": excluded,
		"kept":     kept,
	}).Debug("Applied exclusion pattern")

	return kept, nil
}
