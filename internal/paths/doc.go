// Provides platform-appropriate paths for the evaluator.
//
// All paths follow XDG conventions on Linux and platform-native conventions
// on macOS and Windows. The tool name "pinion" is used as the subdirectory
// under each base path.
package paths
