package alexnet

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// DefaultLabelsURL is the published ImageNet class-label list.
const DefaultLabelsURL = "https://raw.githubusercontent.com/pytorch/hub/master/imagenet_classes.txt"

// LoadLabelsFile reads one class label per line from a local file.
func LoadLabelsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readLabels(bufio.NewScanner(f))
}

// FetchLabels downloads the class-label list. This is a one-time
// startup fetch; callers fall back to placeholder labels on failure.
func FetchLabels(url string) ([]string, error) {
	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch labels: unexpected status %s", resp.Status)
	}
	return readLabels(bufio.NewScanner(resp.Body))
}

// PlaceholderLabels returns numbered stand-in labels for when the real
// list is unavailable. Label loading failure never blocks startup.
func PlaceholderLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("class_%d", i)
	}
	return labels
}

func readLabels(scanner *bufio.Scanner) ([]string, error) {
	var labels []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			labels = append(labels, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("label list is empty")
	}
	return labels, nil
}
