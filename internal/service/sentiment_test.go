package service

import "testing"

func TestSentimentScore(t *testing.T) {
	tests := []struct {
		name string
		text string
		want func(float64) bool
	}{
		{
			name: "empty text is neutral",
			text: "",
			want: func(s float64) bool { return s == 0 },
		},
		{
			name: "positive words raise the score",
			text: "I am excited and proud of my success",
			want: func(s float64) bool { return s > 0 },
		},
		{
			name: "negative words lower the score",
			text: "it was a difficult stressful problem and a big struggle",
			want: func(s float64) bool { return s < 0 },
		},
		{
			name: "neutral text scores zero",
			text: "the building is on the corner of the street",
			want: func(s float64) bool { return s == 0 },
		},
		{
			name: "all positive single word clamps at one",
			text: "excited",
			want: func(s float64) bool { return s == 1 },
		},
		{
			name: "substring match counts",
			text: "I improved our deployment process",
			want: func(s float64) bool { return s > 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SentimentScore(tt.text)
			if !tt.want(got) {
				t.Errorf("SentimentScore(%q) = %v", tt.text, got)
			}
			if got < -1 || got > 1 {
				t.Errorf("SentimentScore(%q) = %v, outside [-1,1]", tt.text, got)
			}
		})
	}
}
