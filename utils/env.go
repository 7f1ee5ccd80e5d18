package utils

var (
	// MAX_PARALLEL caps the number of partitions evaluated concurrently.
	// 0 means one goroutine per partition.
	MAX_PARALLEL = GetEnvOrDefaultInt("WINEVAL_MAX_PARALLEL", 0)

	// QUERY_TIMEOUT_MS bounds a whole evaluation. 0 disables the timeout.
	QUERY_TIMEOUT_MS = GetEnvOrDefaultInt("WINEVAL_QUERY_TIMEOUT_MS", 0)
)
