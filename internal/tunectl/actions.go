package tunectl

// Indirection layer to allow stubbing in tests

var (
	fnBootstrap = bootstrap
	fnFinetune  = finetune
	fnEvaluate  = evaluate
	fnConvert   = convert
	fnSubmit    = submit
	fnRun       = runPipeline

	fnCheckpointPresent = checkpointPresent
)
