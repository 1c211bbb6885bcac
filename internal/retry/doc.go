// Package retry re-runs filesystem operations that fail for transient
// reasons, such as an exhausted descriptor table or an interrupted system
// call, with exponential backoff between attempts.
//
// # Example Usage
//
//	executor := retry.NewExecutor(retry.NewFilesystemErrorClassifier(), retry.NewExponentialBackoff(3))
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    _, err := os.ReadDir(dir)
//	    return err
//	})
//
// Executor instances are safe for concurrent use. Use WithOnRetry() to create
// independent configurations per goroutine.
package retry
