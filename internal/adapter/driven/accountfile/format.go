package accountfile

import (
	"bytes"
	"strings"

	"github.com/ericfisherdev/cardclaim/internal/domain/model"
)

// File layout: one group per line, records separated by ';', fields of a
// record separated by ','. A record is email,secret,token with token optional.
const (
	recordSep = ";"
	fieldSep  = ","
)

// Parse decodes the credential file. Blank lines and empty record segments are
// skipped; fields are trimmed of surrounding whitespace.
func Parse(data []byte) []model.AccountGroup {
	var groups []model.AccountGroup

	for _, line := range splitLines(data) {
		if strings.TrimSpace(line) == "" {
			continue
		}

		var group model.AccountGroup
		for _, record := range strings.Split(line, recordSep) {
			acc, ok := parseRecord(record)
			if !ok {
				continue
			}
			group = append(group, acc)
		}

		if len(group) > 0 {
			groups = append(groups, group)
		}
	}

	return groups
}

func parseRecord(record string) (model.Account, bool) {
	fields := strings.SplitN(record, fieldSep, 3)
	email := strings.TrimSpace(fields[0])
	if email == "" {
		return model.Account{}, false
	}

	acc := model.Account{Email: email}
	if len(fields) > 1 {
		acc.Secret = strings.TrimSpace(fields[1])
	}
	if len(fields) > 2 {
		acc.Token = strings.TrimSpace(fields[2])
	}
	return acc, true
}

// ReplaceToken rewrites the token field of every record whose email matches.
// Non-matching records keep their exact bytes; blank lines are dropped and a
// trailing newline is kept when the input had one. The bool result reports
// whether any record matched.
func ReplaceToken(data []byte, email, token string) ([]byte, bool) {
	var (
		out     []string
		matched bool
	)

	for _, line := range splitLines(data) {
		if strings.TrimSpace(line) == "" {
			continue
		}

		body, cr := strings.CutSuffix(line, "\r")
		records := strings.Split(body, recordSep)
		for i, record := range records {
			fields := strings.SplitN(record, fieldSep, 3)
			if strings.TrimSpace(fields[0]) != email {
				continue
			}

			secret := ""
			if len(fields) > 1 {
				secret = fields[1]
			}
			records[i] = fields[0] + fieldSep + secret + fieldSep + token
			matched = true
		}

		rebuilt := strings.Join(records, recordSep)
		if cr {
			rebuilt += "\r"
		}
		out = append(out, rebuilt)
	}

	result := strings.Join(out, "\n")
	if bytes.HasSuffix(data, []byte("\n")) && len(out) > 0 {
		result += "\n"
	}
	return []byte(result), matched
}

func splitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	return strings.Split(string(data), "\n")
}
