package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/ats-matcher/internal/resume"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords [file]",
	Short: "Print skill keywords found in a file (pdf, txt, md) or stdin",
	Args:  cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		logger, config := setup()

		var (
			text string
			err  error
		)
		if len(args) == 1 {
			text, err = resume.ReadText(args[0])
		} else {
			var data []byte
			data, err = io.ReadAll(os.Stdin)
			text = string(data)
		}
		if err != nil {
			logger.Fatal("reading text", zap.Error(err))
		}

		found := newVocabulary(config.Vocabulary).Extract(resume.CleanText(text))
		for _, keyword := range found.Sorted() {
			fmt.Println(keyword)
		}
	},
}

func init() {
	rootCmd.AddCommand(keywordsCmd)
}
