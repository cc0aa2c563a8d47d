// Package mocks provides shared test doubles for the generation client, the
// asset libraries and the task starter.
//
// Each mock has function fields that override its default behavior and
// records the calls it receives, so tests can assert on dispatch order:
//
//	client := &mocks.MockClient{
//	    GenerateOneFn: func(ctx context.Context, targetID string, req generation.Request) (*generation.Outcome, error) {
//	        return mocks.ImageOutcome("https://cdn.example/" + targetID + ".png"), nil
//	    },
//	}
//
// MockClient is safe for concurrent use, since the batch scheduler calls it
// from several goroutines at once.
package mocks
