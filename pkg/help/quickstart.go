package help

const QuickstartYAML = `# wordfreq Quick Start

pipeline: fetch -> tokenize -> map (parallel) -> shuffle -> reduce (parallel)

commands:
  basic_count: |
    wordfreq count https://www.gutenberg.net.au/ebooks01/0100021.txt

  filtered_count: |
    wordfreq count --filter the,a,an,of,in,to,and,for,that,be <url>

  from_config: |
    wordfreq count --config config.example.yaml

  machine_readable: |
    wordfreq count --format json --full <url>
    wordfreq count --format yaml --output results/summary.yaml <url>

  list_runs: |
    wordfreq runs --limit 20

  run_details: |
    wordfreq show 5
    wordfreq show            # latest run

tokenizing:
  punctuation: "ASCII punctuation is removed before splitting on whitespace"
  case: "tokens are lowercased unless --keep-case is set"
  filter: "matched against the normalized token, so use lowercase words"

html_mode:
  auto: "extract article text when the response is HTML (default)"
  article: "always run article extraction"
  raw: "count the body exactly as received"

exit_codes:
  0: "counted, or fetched with no text"
  1: "fetch failed (non-2xx status, transport error or timeout)"
  2: "invalid configuration or internal failure"
`
