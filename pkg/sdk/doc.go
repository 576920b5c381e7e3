// Package hitreport embeds the BLAST hit renderer and its exporters in a Go
// program, backed by Redis for reports and sequences.
//
// Reports are imported from BLAST XML held in a blob directory. Each hit is
// rendered to a view (title row, link bar, alignment overview) that reflects
// the per-report collapse and selection state:
//
//	client, _ := hitreport.New(ctx,
//	    hitreport.WithRedis("localhost:6379", ""),
//	    hitreport.WithBlobDir("./blobdata"),
//	)
//	defer client.Close()
//
//	info, _ := client.Reports().Import(ctx, "uploads/run1.xml", "run1")
//	view, _ := client.Hits(info.ID).Get(ctx, "Query_1_hit_1")
//	aln, _ := client.Hits(info.ID).Alignment(ctx, "Query_1_hit_1")
//
// Sequences for FASTA downloads come from Redis unless a SequenceResolver is
// supplied with WithSequences:
//
//	fa, _ := client.Exports().FASTA(ctx, []string{"SI2.2.0_06267"}, []string{"abc123"})
package hitreport
