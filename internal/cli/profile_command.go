package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/codesnap/internal/config"
)

const (
	profileUse              = "profile"
	profileShortDescription = "manage saved snapshot profiles"
	profileLongDescription  = `Profiles capture a reusable set of snapshot options under a name.
Apply one with --profile on the main command.`

	profileSaveUse      = "save <name>"
	profileSaveShort    = "save a profile from the given flags"
	profileListUse      = "list"
	profileListShort    = "list saved profiles"
	profileDeleteUse    = "delete <name>"
	profileDeleteShort  = "delete a saved profile"
	profileSavedFormat  = "Profile %q saved"
	profileDeletedForm  = "Profile %q deleted"
	profileListEmptyMsg = "No profiles saved"
)

// createProfileCommand returns the profile subcommand tree.
func createProfileCommand() *cobra.Command {
	profileCommand := &cobra.Command{
		Use:   profileUse,
		Short: profileShortDescription,
		Long:  profileLongDescription,
	}
	profileCommand.AddCommand(
		createProfileSaveCommand(),
		createProfileListCommand(),
		createProfileDeleteCommand(),
	)
	return profileCommand
}

func createProfileSaveCommand() *cobra.Command {
	var profileValue config.Profile

	saveCommand := &cobra.Command{
		Use:   profileSaveUse,
		Short: profileSaveShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			profileStore, storeError := config.NewProfileStore()
			if storeError != nil {
				return storeError
			}
			if saveError := profileStore.Save(arguments[0], profileValue); saveError != nil {
				return saveError
			}
			fmt.Println(successStyle.Render(fmt.Sprintf(profileSavedFormat, arguments[0])))
			return nil
		},
	}

	saveCommand.Flags().StringVarP(&profileValue.Language, languageFlagName, languageFlagShorthand, "", languageFlagDescription)
	saveCommand.Flags().StringVar(&profileValue.Format, formatFlagName, "", formatFlagDescription)
	saveCommand.Flags().StringArrayVar(&profileValue.Exclude, excludeFlagName, nil, excludeFlagDescription)
	saveCommand.Flags().StringArrayVar(&profileValue.Include, includeFlagName, nil, includeFlagDescription)
	saveCommand.Flags().StringArrayVarP(&profileValue.SearchTerms, searchTermFlagName, searchTermFlagShorthand, nil, searchTermFlagDescription)
	saveCommand.Flags().Int64Var(&profileValue.MaxFileSize, maxFileSizeFlagName, 0, maxFileSizeFlagDescription)
	saveCommand.Flags().Int64Var(&profileValue.MaxBytes, maxBytesFlagName, 0, maxBytesFlagDescription)
	saveCommand.Flags().IntVar(&profileValue.MaxTokens, maxTokensFlagName, 0, maxTokensFlagDescription)
	saveCommand.Flags().IntVar(&profileValue.TreeDepth, treeDepthFlagName, 0, treeDepthFlagDescription)
	saveCommand.Flags().BoolVar(&profileValue.NoTree, noTreeFlagName, false, noTreeFlagDescription)
	saveCommand.Flags().BoolVarP(&profileValue.Clipboard, copyFlagName, copyFlagShorthand, false, copyFlagDescription)
	return saveCommand
}

func createProfileListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   profileListUse,
		Short: profileListShort,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			profileStore, storeError := config.NewProfileStore()
			if storeError != nil {
				return storeError
			}
			profileNames, namesError := profileStore.Names()
			if namesError != nil {
				return namesError
			}
			if len(profileNames) == 0 {
				fmt.Println(profileListEmptyMsg)
				return nil
			}
			for _, profileName := range profileNames {
				fmt.Println(profileName)
			}
			return nil
		},
	}
}

func createProfileDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   profileDeleteUse,
		Short: profileDeleteShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			profileStore, storeError := config.NewProfileStore()
			if storeError != nil {
				return storeError
			}
			if deleteError := profileStore.Delete(arguments[0]); deleteError != nil {
				return deleteError
			}
			fmt.Println(successStyle.Render(fmt.Sprintf(profileDeletedForm, arguments[0])))
			return nil
		},
	}
}
