package book

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() Form {
	return Form{Title: "Dune", Author: "Herbert", NumberOfPages: "412"}
}

func TestValidateForm(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *Form)
		wantMsg string
	}{
		{name: "valid insert", mutate: func(f *Form) {}},
		{name: "valid update", mutate: func(f *Form) { f.ID = "12" }},
		{name: "decimal values are truncated", mutate: func(f *Form) { f.NumberOfPages = "412.7"; f.YearPublished = "1965.0" }},
		{name: "non-numeric id", mutate: func(f *Form) { f.ID = "abc" }, wantMsg: MsgNonNumericID},
		{name: "missing title", mutate: func(f *Form) { f.Title = "" }, wantMsg: MsgMissingTitle},
		{name: "missing author", mutate: func(f *Form) { f.Author = "" }, wantMsg: MsgMissingAuthor},
		{name: "non-numeric pages", mutate: func(f *Form) { f.NumberOfPages = "many" }, wantMsg: MsgInvalidPages},
		{name: "zero pages", mutate: func(f *Form) { f.NumberOfPages = "0" }, wantMsg: MsgInvalidPages},
		{name: "infinite pages", mutate: func(f *Form) { f.NumberOfPages = "Inf" }, wantMsg: MsgInvalidPages},
		{name: "missing pages", mutate: func(f *Form) { f.NumberOfPages = "" }, wantMsg: MsgMissingPages},
		{name: "non-numeric year", mutate: func(f *Form) { f.YearPublished = "sixties" }, wantMsg: MsgNonNumericYear},
		{
			name:    "id is checked before title",
			mutate:  func(f *Form) { f.ID = "x"; f.Title = "" },
			wantMsg: MsgNonNumericID,
		},
		{
			name:    "title is checked before author",
			mutate:  func(f *Form) { f.Title = ""; f.Author = "" },
			wantMsg: MsgMissingTitle,
		},
		{
			name:    "author is checked before pages",
			mutate:  func(f *Form) { f.Author = ""; f.NumberOfPages = "x" },
			wantMsg: MsgMissingAuthor,
		},
		{
			name:    "pages are checked before year",
			mutate:  func(f *Form) { f.NumberOfPages = ""; f.YearPublished = "x" },
			wantMsg: MsgMissingPages,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)

			err := ValidateForm(f)

			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tt.wantMsg, validationErr.Message)
		})
	}
}

func TestForm_Fields(t *testing.T) {
	t.Run("blank optionals become null", func(t *testing.T) {
		fields := validForm().Fields()

		assert.Equal(t, Fields{Title: "Dune", Author: "Herbert", NumberOfPages: 412}, fields)
	})

	t.Run("all values", func(t *testing.T) {
		f := Form{
			Title:         "Emma",
			Author:        "Austen",
			NumberOfPages: "474.9",
			Publisher:     "John Murray",
			YearPublished: "1815",
			Description:   "Matchmaking",
			Read:          true,
		}

		fields := f.Fields()

		assert.Equal(t, 474, fields.NumberOfPages)
		require.NotNil(t, fields.Publisher)
		assert.Equal(t, "John Murray", *fields.Publisher)
		require.NotNil(t, fields.YearPublished)
		assert.Equal(t, 1815, *fields.YearPublished)
		require.NotNil(t, fields.Description)
		assert.Equal(t, "Matchmaking", *fields.Description)
		assert.True(t, fields.Read)
	})
}

func TestParseID(t *testing.T) {
	tests := []struct {
		raw          string
		want         int64
		wantMsg      string
		wantNotFound bool
	}{
		{raw: "42", want: 42},
		{raw: " 7 ", want: 7},
		{raw: "0", want: 0},
		{raw: "9007199254740993", want: 9007199254740993},
		{raw: "12.9", wantNotFound: true},
		{raw: "5.0", wantNotFound: true},
		{raw: "1e3", wantNotFound: true},
		{raw: "99999999999999999999", wantNotFound: true},
		{raw: "", wantMsg: MsgMissingID},
		{raw: "   ", wantMsg: MsgMissingID},
		{raw: "abc", wantMsg: MsgNonNumericID},
		{raw: "12abc", wantMsg: MsgNonNumericID},
		{raw: "NaN", wantMsg: MsgNonNumericID},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			id, err := ParseID(tt.raw)

			if tt.wantNotFound {
				assert.ErrorIs(t, err, ErrNotFound)
				return
			}
			if tt.wantMsg != "" {
				var validationErr *ValidationError
				require.True(t, errors.As(err, &validationErr))
				assert.Equal(t, tt.wantMsg, validationErr.Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}
