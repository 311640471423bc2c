package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ManuelReschke/newsfeed/app/models"
	"github.com/ManuelReschke/newsfeed/app/repository"
)

var errUsage = errors.New("usage")

const timeLayout = "2006-01-02 15:04"

// run executes one CLI command against repo and writes its output to w.
func run(ctx context.Context, repo repository.NewsfeedRepository, args []string, w io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "feed":
		page, err := pageArg(args, 1)
		if err != nil {
			return err
		}
		result, err := repo.IndexFront(ctx, repository.Pagination{Page: page})
		if err != nil {
			return err
		}
		printNewsPage(w, result)

	case "search":
		if len(args) < 2 {
			return errUsage
		}
		page, err := pageArg(args, 2)
		if err != nil {
			return err
		}
		result, err := repo.Search(ctx, repository.Pagination{Page: page}, args[1])
		if err != nil {
			return err
		}
		printNewsPage(w, result)

	case "tag":
		if len(args) < 2 {
			return errUsage
		}
		tagID, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid tag id %q: %w", args[1], err)
		}
		page, err := pageArg(args, 2)
		if err != nil {
			return err
		}
		label, err := repo.GetTagByID(ctx, uint(tagID))
		if err != nil {
			return err
		}
		result, err := repo.IndexTag(ctx, repository.Pagination{Page: page}, uint(tagID))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "#%s\n", label)
		printNewsPage(w, result)

	case "show":
		if len(args) < 2 {
			return errUsage
		}
		result, err := repo.Show(ctx, args[1])
		if err != nil {
			return err
		}
		n := result.News
		fmt.Fprintf(w, "%s\n%s by %s [%s]\n\n%s\n\n%s\n",
			n.Title, n.CreatedAt.Format(timeLayout), n.User.Username,
			strings.Join(n.TagLabels(), ", "), n.Summary, n.Content)
		fmt.Fprintf(w, "\n%d comment(s)\n", len(result.Comments))
		for _, c := range result.Comments {
			fmt.Fprintf(w, "- %s (%s): %s\n", c.User.Username, c.CreatedAt.Format(timeLayout), c.Body)
		}

	case "admin":
		page, err := pageArg(args, 1)
		if err != nil {
			return err
		}
		var filter repository.IndexFilter
		if len(args) > 2 {
			userID, err := strconv.ParseUint(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user id %q: %w", args[2], err)
			}
			filter.UserID = uint(userID)
		}
		result, err := repo.Index(ctx, repository.Pagination{Page: page}, filter)
		if err != nil {
			return err
		}
		for _, row := range result.Items {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\tactive=%t\tseen=%t\n",
				row.ID, row.CreatedAt.Format(timeLayout), row.Username, row.Slug, row.Active, row.Seen)
		}
		printFooter(w, result.CurrentPage, result.LastPage, result.Total)

	case "purge-tags":
		purged, err := repo.PurgeOrphanTags(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "purged %d tag(s)\n", purged)

	default:
		return errUsage
	}
	return nil
}

// pageArg parses the optional page number at args[i].
func pageArg(args []string, i int) (int, error) {
	if len(args) <= i {
		return 1, nil
	}
	page, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("invalid page %q: %w", args[i], err)
	}
	return page, nil
}

func printNewsPage(w io.Writer, page *repository.Page[models.News]) {
	for _, n := range page.Items {
		fmt.Fprintf(w, "%s  %-40s  %s (%s)\n", n.CreatedAt.Format(timeLayout), n.Title, n.Slug, n.User.Username)
	}
	printFooter(w, page.CurrentPage, page.LastPage, page.Total)
}

func printFooter(w io.Writer, current, last int, total int64) {
	fmt.Fprintf(w, "page %d/%d, %d news\n", current, last, total)
}
