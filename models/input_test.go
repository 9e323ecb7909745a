package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTaskInput_Valid(t *testing.T) {
	in, err := DecodeTaskInput([]byte(`{"title":"B","description":"e","completed":true,"priority":"high"}`))
	require.NoError(t, err)

	assert.Equal(t, TaskInput{Title: "B", Description: "e", Completed: true, Priority: PriorityHigh}, in)
}

func TestDecodeTaskInput_OptionalFieldsOmitted(t *testing.T) {
	in, err := DecodeTaskInput([]byte(`{"title":"B","description":"e"}`))
	require.NoError(t, err)

	assert.False(t, in.Completed)
	assert.Empty(t, in.Priority)
}

func TestDecodeTaskInput_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantPaths []string
		wantMsgs  []string
	}{
		{
			name:      "missing title and description",
			body:      `{}`,
			wantPaths: []string{"title", "description"},
			wantMsgs:  []string{"Title is required", "Description is required"},
		},
		{
			name:      "empty title",
			body:      `{"title":"","description":"d"}`,
			wantPaths: []string{"title"},
			wantMsgs:  []string{"Title is required"},
		},
		{
			name:      "priority outside the enum",
			body:      `{"title":"t","description":"d","priority":"urgent"}`,
			wantPaths: []string{"priority"},
			wantMsgs:  []string{"Priority must be among high, medium, low. Default value is medium"},
		},
		{
			name:      "completed not a boolean",
			body:      `{"title":"t","description":"d","completed":"yes"}`,
			wantPaths: []string{"completed"},
			wantMsgs:  []string{"Completed must be a boolean"},
		},
		{
			name:      "title not a string",
			body:      `{"title":42,"description":"d"}`,
			wantPaths: []string{"title"},
			wantMsgs:  []string{"Invalid value"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTaskInput([]byte(tt.body))
			require.Error(t, err)

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs), "expected ValidationErrors, got %T", err)

			var paths, msgs []string
			for _, fe := range verrs {
				paths = append(paths, fe.Path)
				msgs = append(msgs, fe.Msg)
				assert.Equal(t, "field", fe.Type)
				assert.Equal(t, "body", fe.Location)
			}
			assert.Equal(t, tt.wantPaths, paths)
			assert.Equal(t, tt.wantMsgs, msgs)
		})
	}
}

func TestDecodeTaskInput_EchoesSubmittedValue(t *testing.T) {
	_, err := DecodeTaskInput([]byte(`{"title":"t","description":"d","priority":"urgent"}`))

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 1)
	assert.Equal(t, "urgent", verrs[0].Value)

	data, err := json.Marshal(verrs[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"field","value":"urgent","msg":"Priority must be among high, medium, low. Default value is medium","path":"priority","location":"body"}`, string(data))
}

func TestDecodeTaskInput_InvalidJSON(t *testing.T) {
	for _, body := range []string{`{"title":`, `[1,2]`, `null`, `"text"`} {
		_, err := DecodeTaskInput([]byte(body))
		assert.ErrorIs(t, err, ErrInvalidJSON, "body %q", body)
	}
}

func TestDecodeTaskInput_EmptyBodyIsEmptyObject(t *testing.T) {
	_, err := DecodeTaskInput(nil)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 2)
}
