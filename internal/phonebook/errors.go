package phonebook

// errors.go maps technical errors to user-facing messages with a code that
// users can quote when asking for help.
//
//	FILE001 - File not found
//	FILE002 - Invalid CSV
//	FILE003 - Empty file (no header row)
//	FILE004 - No file provided
//	FILE005 - File too large
//	FILE006 - Unsupported file type
//	VAL001  - Missing required column
//	DB001   - No database configured
//	DB002   - Database unavailable
//	GEN001  - Timeout
//	GEN002  - Too many concurrent generations
//	GEN999  - Anything else

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/JonMunkholm/phonebook/internal/csvload"
	"github.com/JonMunkholm/phonebook/internal/store"
)

var (
	// ErrNoFile is returned when an upload carries no file.
	ErrNoFile = errors.New("no file provided")

	// ErrFileTooLarge is returned when an upload exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrUnsupportedType is returned when an upload is not a text table.
	ErrUnsupportedType = errors.New("unsupported file type")
)

// UserMessage is a user-friendly error description.
type UserMessage struct {
	Code    string
	Message string
	Action  string
}

type errorMapping struct {
	target error
	msg    UserMessage
}

var errorMappings = []errorMapping{
	{os.ErrNotExist, UserMessage{"FILE001", "The contact file was not found", "Check the --csv-file path"}},
	{csvload.ErrInvalidCSV, UserMessage{"FILE002", "The file is not a valid CSV", "Ensure the file is comma-separated text"}},
	{csvload.ErrEmptyInput, UserMessage{"FILE003", "The file is empty", "Add a header row: name,phone,cellular,sort,frontpage"}},
	{ErrNoFile, UserMessage{"FILE004", "No file was provided", "Select a CSV file to upload"}},
	{ErrFileTooLarge, UserMessage{"FILE005", "The file is too large", "Split the contact list or raise UPLOAD_MAX_FILE_SIZE"}},
	{ErrUnsupportedType, UserMessage{"FILE006", "The file is not a CSV text file", "Export the contact list as CSV"}},
	{csvload.ErrMissingColumn, UserMessage{"VAL001", "A required column is missing", "The header must contain name, phone, cellular, sort and frontpage"}},
	{store.ErrNoDatabase, UserMessage{"DB001", "No contact database is configured", "Set DATABASE_URL"}},
	{context.DeadlineExceeded, UserMessage{"GEN001", "The operation timed out", "Please try again"}},
	{ErrBusy, UserMessage{"GEN002", "The server is busy generating other phone books", "Please try again in a few moments"}},
}

var unknownError = UserMessage{"GEN999", "Something went wrong", "Please try again or contact support"}

// MapError converts an error to a user-friendly message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			msg := m.msg
			if m.target == csvload.ErrMissingColumn {
				msg.Message = detail(err, msg.Message)
			}
			return msg
		}
	}

	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "connection refused") || strings.Contains(lower, "failed to connect") {
		return UserMessage{"DB002", "The contact database is unavailable", "Please try again in a few moments"}
	}

	return unknownError
}

// detail appends the part of err after the sentinel text, e.g. the names of
// the missing columns.
func detail(err error, base string) string {
	s := err.Error()
	sentinel := csvload.ErrMissingColumn.Error() + ": "
	if i := strings.LastIndex(s, sentinel); i >= 0 {
		return base + ": " + s[i+len(sentinel):]
	}
	return base
}
