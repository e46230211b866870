package ui

import "fmt"

// RunSummary holds the figures shown after an extraction run
type RunSummary struct {
	Terms             int
	Subreddits        int
	Posts             int
	Comments          int
	DuplicatesDropped int
	Failures          []string
	PostsFile         string
	CommentsFile      string
}

// PrintRunSummary prints the end-of-run report
func PrintRunSummary(s RunSummary) {
	if quietMode.Load() {
		return
	}

	fmt.Println()
	PrintHighlight("Extraction Summary")
	fmt.Printf("  %s %d term(s) x %d subreddit(s)\n", Dim("searched"), s.Terms, s.Subreddits)
	fmt.Printf("  %s %d\n", Dim("posts collected"), s.Posts)
	fmt.Printf("  %s %d\n", Dim("comments collected"), s.Comments)
	if s.DuplicatesDropped > 0 {
		fmt.Printf("  %s %d\n", Dim("duplicates dropped"), s.DuplicatesDropped)
	}

	if len(s.Failures) > 0 {
		fmt.Println()
		PrintWarning(fmt.Sprintf("%d request(s) failed:", len(s.Failures)))
		for _, f := range s.Failures {
			fmt.Printf("  %s\n", Yellow(f))
		}
	}

	if s.PostsFile != "" {
		PrintInfo("Posts file", s.PostsFile)
	}
	if s.CommentsFile != "" {
		PrintInfo("Comments file", s.CommentsFile)
	}
}
