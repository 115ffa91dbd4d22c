package s3

import "github.com/aws/smithy-go/logging"

const logPrefix = "aws-sdk-go-v2: "

type s3Logger struct {
	logger Logger
}

func (l *s3Logger) Logf(classification logging.Classification, format string, v ...any) {
	if classification == logging.Warn {
		l.logger.Debugf(logPrefix+"WARN: "+format, v...)
		return
	}

	l.logger.Debugf(logPrefix+format, v...)
}
