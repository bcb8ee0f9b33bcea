package util

import "regexp"

// CompileExcludePattern compiles an exclusion pattern, nil for the empty pattern.
func CompileExcludePattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, NewConfigError(err, "invalid exclusion pattern")
	}
	return re, nil
}
