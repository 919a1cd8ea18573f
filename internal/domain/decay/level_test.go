package decay

import "testing"

func TestLevelFor(t *testing.T) {
	t.Parallel() // Enable parallel execution
	params := NewDefaultParams()

	testCases := []struct {
		name       string
		residualMg float64
		expected   Level
	}{
		{
			name:       "Above 200 is very high",
			residualMg: 250,
			expected:   LevelVeryHigh,
		},
		{
			name:       "Exactly 200 is high",
			residualMg: 200, // threshold is strict greater-than
			expected:   LevelHigh,
		},
		{
			name:       "Between 100 and 200 is high",
			residualMg: 150,
			expected:   LevelHigh,
		},
		{
			name:       "Exactly 100 is moderate",
			residualMg: 100, // threshold is strict greater-than
			expected:   LevelModerate,
		},
		{
			name:       "Between 50 and 100 is moderate",
			residualMg: 75,
			expected:   LevelModerate,
		},
		{
			name:       "Exactly 50 is low",
			residualMg: 50,
			expected:   LevelLow,
		},
		{
			name:       "Between 10 and 50 is low",
			residualMg: 10.5,
			expected:   LevelLow,
		},
		{
			name:       "Exactly 10 is minimal",
			residualMg: 10,
			expected:   LevelMinimal,
		},
		{
			name:       "Zero is minimal",
			residualMg: 0,
			expected:   LevelMinimal,
		},
		{
			name:       "Negative is minimal",
			residualMg: -5,
			expected:   LevelMinimal,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := levelFor(tc.residualMg, params); got != tc.expected {
				t.Errorf("Expected level %q for %v mg, got %q", tc.expected, tc.residualMg, got)
			}
		})
	}
}
