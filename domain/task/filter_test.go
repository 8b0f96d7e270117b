package task

import (
	"errors"
	"testing"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name      string
		status    string
		search    string
		want      Filter
		wantErr   error
		wantEmpty bool
	}{
		{
			name:      "both absent",
			want:      Filter{},
			wantEmpty: true,
		},
		{
			name:   "status only",
			status: "DONE",
			want:   Filter{Status: StatusDone},
		},
		{
			name:   "search only",
			search: "Buy",
			want:   Filter{Search: "Buy"},
		},
		{
			name:   "status and search",
			status: "IN_PROGRESS",
			search: "report",
			want:   Filter{Status: StatusInProgress, Search: "report"},
		},
		{
			name:    "lowercase status rejected",
			status:  "open",
			wantErr: ErrInvalidStatus,
		},
		{
			name:    "unknown status rejected",
			status:  "ARCHIVED",
			wantErr: ErrInvalidStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFilter(tt.status, tt.search)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseFilter() error = %v, want %v", err, tt.wantErr)
				}
				if CodeOf(err) != CodeValidation {
					t.Errorf("CodeOf() = %v, want %v", CodeOf(err), CodeValidation)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFilter() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseFilter() = %+v, want %+v", got, tt.want)
			}
			if got.IsEmpty() != tt.wantEmpty {
				t.Errorf("IsEmpty() = %v, want %v", got.IsEmpty(), tt.wantEmpty)
			}
		})
	}
}

func TestFilter_Matches(t *testing.T) {
	task := &Task{Title: "Buy Milk", Description: "from the corner shop", Status: StatusOpen}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{name: "empty filter", filter: Filter{}, want: true},
		{name: "status match", filter: Filter{Status: StatusOpen}, want: true},
		{name: "status mismatch", filter: Filter{Status: StatusDone}, want: false},
		{name: "title case-insensitive", filter: Filter{Search: "milk"}, want: true},
		{name: "description match", filter: Filter{Search: "CORNER"}, want: true},
		{name: "no text match", filter: Filter{Search: "bread"}, want: false},
		{name: "status and search", filter: Filter{Status: StatusOpen, Search: "buy"}, want: true},
		{name: "search ok status wrong", filter: Filter{Status: StatusDone, Search: "buy"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(task); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}
