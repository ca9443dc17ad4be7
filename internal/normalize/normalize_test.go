package normalize_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/calvinalkan/pontos/internal/normalize"
	"github.com/calvinalkan/pontos/internal/period"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeExampleResponse(t *testing.T) {
	t.Parallel()

	raw := `{"serverName":"J. SILVA","month":"Fevereiro","year":2026,"data":[{"taskId":1,"quantity":5},{"taskId":99,"quantity":0}]}`

	got, err := normalize.Normalize(raw, normalize.Options{})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	want := normalize.Record{
		ServerName:   "J. SILVA",
		Period:       period.New(2026, period.Fev),
		YearSupplied: true,
		Entries:      map[int]int{1: 5},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		raw       string
		opts      normalize.Options
		wantErr   error
		wantValue string
	}{
		{name: "not json", raw: "Desculpe, não consegui ler o documento.", wantErr: normalize.ErrFormat},
		{name: "empty", raw: "  ", wantErr: normalize.ErrFormat},
		{name: "fence only", raw: "```json\n```", wantErr: normalize.ErrFormat},
		{name: "missing data", raw: `{"serverName":"A","month":"fev","year":2026}`, wantErr: normalize.ErrFormat},
		{name: "data is a string", raw: `{"month":"fev","year":2026,"data":"1:5"}`, wantErr: normalize.ErrFormat},
		{name: "top level array", raw: `[{"taskId":1,"quantity":5}]`, wantErr: normalize.ErrFormat},
		{name: "entry not an object", raw: `{"month":"fev","year":2026,"data":[5]}`, wantErr: normalize.ErrFormat},
		{name: "month 13", raw: `{"month":"13","year":2026,"data":[{"taskId":1,"quantity":5}]}`, wantErr: normalize.ErrUnrecognizedPeriod, wantValue: "13"},
		{name: "month smarch", raw: `{"month":"smarch","year":2026,"data":[{"taskId":1,"quantity":5}]}`, wantErr: normalize.ErrUnrecognizedPeriod, wantValue: "smarch"},
		{name: "month numeric", raw: `{"month":2,"year":2026,"data":[{"taskId":1,"quantity":5}]}`, wantErr: normalize.ErrUnrecognizedPeriod, wantValue: "2"},
		{name: "month missing", raw: `{"year":2026,"data":[{"taskId":1,"quantity":5}]}`, wantErr: normalize.ErrUnrecognizedPeriod},
		{name: "year missing without fallback", raw: `{"month":"fev","data":[{"taskId":1,"quantity":5}]}`, wantErr: normalize.ErrUnrecognizedPeriod},
		{name: "only zero quantity", raw: `{"month":"fev","year":2026,"data":[{"taskId":1,"quantity":0}]}`, wantErr: normalize.ErrEmpty},
		{name: "empty list", raw: `{"month":"fev","year":2026,"data":[]}`, wantErr: normalize.ErrEmpty},
		{name: "non-positive ids", raw: `{"month":"fev","year":2026,"data":[{"taskId":0,"quantity":3},{"taskId":-2,"quantity":3}]}`, wantErr: normalize.ErrEmpty},
		{name: "id beyond int64", raw: `{"month":"fev","year":2026,"data":[{"taskId":18446744073709551621,"quantity":3}]}`, wantErr: normalize.ErrEmpty},
		{name: "id beyond int32", raw: `{"month":"fev","year":2026,"data":[{"taskId":"4294967297","quantity":3}]}`, wantErr: normalize.ErrEmpty},
		{name: "year beyond int64 without fallback", raw: `{"month":"fev","year":18446744073709553642,"data":[{"taskId":1,"quantity":3}]}`, wantErr: normalize.ErrUnrecognizedPeriod, wantValue: "18446744073709553642"},
		{name: "bad period wins over empty", raw: `{"month":"xx","year":2026,"data":[]}`, wantErr: normalize.ErrUnrecognizedPeriod, wantValue: "xx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := normalize.Normalize(tt.raw, tt.opts)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err=%v, want=%v", err, tt.wantErr)
			}

			var nerr *normalize.Error
			if !errors.As(err, &nerr) {
				t.Fatalf("err=%T, want *normalize.Error", err)
			}

			if got, want := nerr.Raw, tt.raw; got != want {
				t.Errorf("Raw=%q, want=%q", got, want)
			}

			if got, want := nerr.Value, tt.wantValue; got != want {
				t.Errorf("Value=%q, want=%q", got, want)
			}
		})
	}
}

func TestNormalizeRepairs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		opts normalize.Options
		want normalize.Record
	}{
		{
			name: "fenced response",
			raw:  "```json\n{\"serverName\":\" ana \",\"month\":\"MAR\",\"year\":2027,\"data\":[{\"taskId\":10,\"quantity\":2}]}\n```",
			want: normalize.Record{ServerName: "ana", Period: period.New(2027, period.Mar), YearSupplied: true, Entries: map[int]int{10: 2}},
		},
		{
			name: "object map data",
			raw:  `{"serverName":"B","month":"março","year":"2026","data":{"1":"4","292":2.9,"3":0}}`,
			want: normalize.Record{ServerName: "B", Period: period.New(2026, period.Mar), YearSupplied: true, Entries: map[int]int{1: 4, 292: 2}},
		},
		{
			name: "year falls back",
			raw:  `{"serverName":null,"month":"dez","year":null,"data":[{"taskId":1,"quantity":1}]}`,
			opts: normalize.Options{FallbackYear: 2027},
			want: normalize.Record{Period: period.New(2027, period.Dez), Entries: map[int]int{1: 1}},
		},
		{
			name: "implausible year falls back",
			raw:  `{"month":"dez","year":26,"data":[{"taskId":1,"quantity":1}]}`,
			opts: normalize.Options{FallbackYear: 2026},
			want: normalize.Record{Period: period.New(2026, period.Dez), Entries: map[int]int{1: 1}},
		},
		{
			name: "duplicate ids last wins and zero does not override",
			raw:  `{"month":"fev","year":2026,"data":[{"taskId":1,"quantity":2},{"taskId":1,"quantity":7},{"taskId":1,"quantity":0}]}`,
			want: normalize.Record{Period: period.New(2026, period.Fev), YearSupplied: true, Entries: map[int]int{1: 7}},
		},
		{
			name: "entries missing fields are dropped",
			raw:  `{"month":"fev","year":2026,"data":[{"taskId":1},{"quantity":4},{"taskId":"x","quantity":4},{"taskId":1.5,"quantity":4},{"taskId":2,"quantity":3}]}`,
			want: normalize.Record{Period: period.New(2026, period.Fev), YearSupplied: true, Entries: map[int]int{2: 3}},
		},
		{
			name: "unknown ids are kept and listed",
			raw:  `{"month":"fev","year":2026,"data":[{"taskId":500,"quantity":1},{"taskId":99,"quantity":2},{"taskId":1,"quantity":1}]}`,
			want: normalize.Record{
				Period:         period.New(2026, period.Fev),
				YearSupplied:   true,
				Entries:        map[int]int{1: 1, 99: 2, 500: 1},
				UnknownTaskIDs: []int{99, 500},
			},
		},
		{
			name: "out of range numbers do not wrap",
			raw:  `{"month":"fev","year":18446744073709553642,"data":[{"taskId":18446744073709551621,"quantity":3},{"taskId":1,"quantity":-18446744073709551621},{"taskId":2,"quantity":1}]}`,
			opts: normalize.Options{FallbackYear: 2026},
			want: normalize.Record{Period: period.New(2026, period.Fev), Entries: map[int]int{2: 1}},
		},
		{
			name: "huge quantity is capped",
			raw:  `{"month":"fev","year":2026,"data":[{"taskId":1,"quantity":1e20}]}`,
			want: normalize.Record{Period: period.New(2026, period.Fev), YearSupplied: true, Entries: map[int]int{1: 2147483647}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := normalize.Normalize(tt.raw, tt.opts)
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("record mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStripFences(t *testing.T) {
	t.Parallel()

	if got, want := normalize.StripFences("  ```json\n{}\n```  "), "{}"; got != want {
		t.Errorf("StripFences=%q, want=%q", got, want)
	}
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{raw: "oops", want: "O sistema não conseguiu processar a resposta do documento."},
		{raw: `{"month":"smarch","year":2026,"data":[]}`, want: "Mês não identificado no documento: smarch."},
		{raw: `{"year":2026,"data":[]}`, want: "Mês não identificado no documento: Não encontrado."},
		{raw: `{"month":"fev","year":"dois mil","data":[]}`, want: "Ano não identificado no documento: dois mil."},
		{raw: `{"month":"fev","year":2026,"data":[]}`, want: "Não conseguimos extrair dados de produtividade deste documento."},
	}

	for _, tt := range tests {
		_, err := normalize.Normalize(tt.raw, normalize.Options{})
		if err == nil {
			t.Fatalf("Normalize(%s) succeeded", tt.raw)
		}

		if got := normalize.UserMessage(err); !strings.HasPrefix(got, tt.want) {
			t.Errorf("UserMessage(%s)=%q, want prefix %q", tt.raw, got, tt.want)
		}
	}

	if got, want := normalize.UserMessage(errors.New("network down")), normalize.GenericMessage; got != want {
		t.Errorf("UserMessage(other)=%q, want=%q", got, want)
	}
}
